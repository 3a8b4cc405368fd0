package timetable

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGTFSDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
	}
	return dir
}

func TestLoadLocal(t *testing.T) {
	dir := writeGTFSDir(t, map[string]string{
		"trips.txt": "route_id,service_id,trip_id,trip_headsign,trip_short_name,direction_id\n" +
			"ct-local,weekday,trip-101,San Francisco,101,0\n" +
			"ct-local,weekday,trip-102,San Jose,102,1\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"trip-101,08:00:00,08:01:00,70262,1\n" +
			"trip-101,09:10:00,09:11:00,70011,2\n" +
			"trip-102,08:30:00,08:31:00,70012,1\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"weekday,1,1,1,1,1,0,0,20250101,20261231\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"holiday,20250704,1\n" +
			"weekday,20250704,2\n",
	})

	store := NewStore("", dir, "")
	tables, err := store.EnsureLoaded()

	require.NoError(t, err)
	assert.Len(t, tables.Trips, 2)
	assert.Len(t, tables.Calendars, 1)
	assert.Len(t, tables.CalendarDates, 2)

	assert.Len(t, tables.TripsForService("weekday"), 2)
	assert.Equal(t, 2, tables.StopCount("trip-101"))

	stopTime := tables.StopTimeAt("trip-101", "70011")
	require.NotNil(t, stopTime)
	assert.Equal(t, "09:10:00", stopTime.ArrivalTime)

	assert.Nil(t, tables.StopTimeAt("trip-101", "99999"))
}

func TestLoadLocalMissingCalendarDates(t *testing.T) {
	dir := writeGTFSDir(t, map[string]string{
		"trips.txt":      "route_id,service_id,trip_id,trip_headsign,trip_short_name,direction_id\nct-local,weekday,trip-101,SF,101,0\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\ntrip-101,08:00:00,08:01:00,70262,1\n",
		"calendar.txt":   "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\nweekday,1,1,1,1,1,0,0,20250101,20261231\n",
	})

	store := NewStore("", dir, "")
	tables, err := store.EnsureLoaded()

	require.NoError(t, err)
	assert.Empty(t, tables.CalendarDates)
}

func TestLoadLocalMissingRequiredFile(t *testing.T) {
	dir := writeGTFSDir(t, map[string]string{
		"trips.txt": "route_id,service_id,trip_id,trip_headsign,trip_short_name,direction_id\n",
	})

	store := NewStore("", dir, "")
	_, err := store.EnsureLoaded()

	assert.Error(t, err)
}

func activeServiceFixture() *Tables {
	return &Tables{
		Calendars: []Calendar{
			{
				ServiceID: "weekday",
				Monday:    1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1,
				Start: "20250101", End: "20261231",
			},
			{
				ServiceID: "weekend",
				Saturday:  1, Sunday: 1,
				Start: "20250101", End: "20261231",
			},
		},
		CalendarDates: []CalendarDate{
			{ServiceID: "holiday", Date: "20250704", ExceptionType: ExceptionServiceAdded},
			{ServiceID: "weekday", Date: "20251127", ExceptionType: ExceptionServiceRemoved},
		},
	}
}

func TestActiveServiceOn(t *testing.T) {
	store := NewStore("", "", "")
	tables := activeServiceFixture()

	tuesday := time.Date(2025, time.June, 10, 12, 0, 0, 0, store.Location)
	assert.Equal(t, "weekday", store.ActiveServiceOn(tuesday, tables))

	saturday := time.Date(2025, time.June, 14, 12, 0, 0, 0, store.Location)
	assert.Equal(t, "weekend", store.ActiveServiceOn(saturday, tables))
}

func TestActiveServiceOnAddedExceptionWins(t *testing.T) {
	store := NewStore("", "", "")

	// July 4th 2025 is a Friday, but the added exception outranks the
	// weekday calendar row.
	independenceDay := time.Date(2025, time.July, 4, 12, 0, 0, 0, store.Location)
	assert.Equal(t, "holiday", store.ActiveServiceOn(independenceDay, activeServiceFixture()))
}

func TestActiveServiceOnRemovedException(t *testing.T) {
	store := NewStore("", "", "")

	// Thanksgiving 2025: weekday service is removed and nothing is added.
	thanksgiving := time.Date(2025, time.November, 27, 12, 0, 0, 0, store.Location)
	assert.Equal(t, "", store.ActiveServiceOn(thanksgiving, activeServiceFixture()))
}

func TestActiveServiceOnOutsideRange(t *testing.T) {
	store := NewStore("", "", "")

	past := time.Date(2020, time.June, 10, 12, 0, 0, 0, store.Location)
	assert.Equal(t, "", store.ActiveServiceOn(past, activeServiceFixture()))
}

// The service day follows the Pacific civil date, not UTC: late evening in
// California is already the next day in UTC.
func TestActiveServiceOnUsesPacificDate(t *testing.T) {
	store := NewStore("", "", "")

	// 2025-06-14 02:00 UTC is Friday 2025-06-13 19:00 in California.
	fridayEvening := time.Date(2025, time.June, 14, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "weekday", store.ActiveServiceOn(fridayEvening, activeServiceFixture()))
}
