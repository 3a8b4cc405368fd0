package venues

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayrail/bayrail/pkg/stations"
)

func TestGetByID(t *testing.T) {
	oracle := GetByID("oracle-park")
	require.NotNil(t, oracle)
	assert.Equal(t, "Oracle Park", oracle.Name)

	assert.Nil(t, GetByID("madison-square-garden"))
}

func TestVenueStationsExist(t *testing.T) {
	for _, venue := range Venues {
		require.NotEmpty(t, venue.NearestStations, "venue %s", venue.ID)
		for _, stationID := range venue.NearestStations {
			assert.NotNil(t, stations.GetByID(stationID),
				"venue %s references unknown station %s", venue.ID, stationID)
		}
	}
}

func TestCrowdLevelForAttendance(t *testing.T) {
	assert.Equal(t, CrowdHigh, crowdLevelForAttendance("Dreamforce, 45,000 expected attendees"))
	assert.Equal(t, CrowdModerate, crowdLevelForAttendance("Trade show with 8,000 attendees"))
	assert.Equal(t, CrowdLow, crowdLevelForAttendance("Seminar, 400 attendees"))
	assert.Equal(t, CrowdModerate, crowdLevelForAttendance("Annual developer conference"))
}

func TestParseEventDate(t *testing.T) {
	parsed, ok := parseEventDate("September 15, 2025")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC), parsed)

	_, ok = parseEventDate("sometime next week")
	assert.False(t, ok)
}
