package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayrail/bayrail/pkg/rail"
)

func delayedStop(stopID string, delaySeconds int) StopTimeUpdate {
	return StopTimeUpdate{
		StopID:    stopID,
		Departure: &StopTimeEvent{DelaySeconds: delaySeconds},
	}
}

func TestTripDelayMatchesExactTripID(t *testing.T) {
	updates := []TripUpdate{
		{TripID: "130", StopTimeUpdates: []StopTimeUpdate{delayedStop("70011", 300)}},
		{TripID: "132", StopTimeUpdates: []StopTimeUpdate{delayedStop("70011", 600)}},
	}

	delay := TripDelay(updates, "132", "")

	require.NotNil(t, delay)
	assert.Equal(t, 10, delay.Minutes)
	assert.Equal(t, rail.StatusDelayed, delay.Status)
}

func TestTripDelayFallsBackToTrainNumber(t *testing.T) {
	updates := []TripUpdate{
		{TripID: "2024-WD-155", StopTimeUpdates: []StopTimeUpdate{delayedStop("70011", 180)}},
	}

	bareNumber := TripDelay([]TripUpdate{
		{TripID: "155", StopTimeUpdates: []StopTimeUpdate{delayedStop("70011", 180)}},
	}, "missing-trip", "155")
	require.NotNil(t, bareNumber)
	assert.Equal(t, 3, bareNumber.Minutes)

	suffixed := TripDelay(updates, "missing-trip", "155")
	require.NotNil(t, suffixed)
	assert.Equal(t, 3, suffixed.Minutes)
}

func TestTripDelayNoMatch(t *testing.T) {
	updates := []TripUpdate{
		{TripID: "130", StopTimeUpdates: []StopTimeUpdate{delayedStop("70011", 300)}},
	}

	assert.Nil(t, TripDelay(updates, "999", "999"))
	assert.Nil(t, TripDelay(nil, "130", "130"))
}

func TestTripDelayNoStopUpdates(t *testing.T) {
	updates := []TripUpdate{{TripID: "130"}}

	assert.Nil(t, TripDelay(updates, "130", ""))
}

func TestCalculateTripDelayMaximumMagnitude(t *testing.T) {
	update := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			delayedStop("70011", 120),
			delayedStop("70021", 540),
			delayedStop("70031", 300),
		},
	}

	delay := calculateTripDelay(update)

	require.NotNil(t, delay)
	assert.Equal(t, 9, delay.Minutes)
	assert.Equal(t, rail.StatusDelayed, delay.Status)
}

func TestCalculateTripDelayOrderIndependent(t *testing.T) {
	forward := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			delayedStop("70011", 120),
			delayedStop("70021", 540),
		},
	}
	reversed := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			delayedStop("70021", 540),
			delayedStop("70011", 120),
		},
	}

	assert.Equal(t, calculateTripDelay(forward), calculateTripDelay(reversed))
}

func TestCalculateTripDelayEarlyRunning(t *testing.T) {
	update := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			delayedStop("70011", -150),
			delayedStop("70021", 60),
		},
	}

	delay := calculateTripDelay(update)

	require.NotNil(t, delay)
	assert.Equal(t, -3, delay.Minutes)
	assert.Equal(t, rail.StatusDelayed, delay.Status)
}

func TestCalculateTripDelayCancelledStopWins(t *testing.T) {
	update := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			delayedStop("70011", 1200),
			{StopID: "70021", ScheduleRelationship: "SKIPPED"},
		},
	}

	delay := calculateTripDelay(update)

	require.NotNil(t, delay)
	assert.Equal(t, rail.StatusCancelled, delay.Status)
	assert.Equal(t, 0, delay.Minutes)
}

// An explicit zero from the feed is a real observation, distinct from the
// feed not covering a trip at all.
func TestCalculateTripDelayExplicitZero(t *testing.T) {
	update := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			delayedStop("70011", 0),
			delayedStop("70021", 20),
		},
	}

	delay := calculateTripDelay(update)

	require.NotNil(t, delay)
	assert.Equal(t, 0, delay.Minutes)
	assert.Equal(t, rail.StatusOnTime, delay.Status)
}

func TestCalculateTripDelayArrivalFallback(t *testing.T) {
	update := TripUpdate{
		TripID: "130",
		StopTimeUpdates: []StopTimeUpdate{
			{StopID: "70011", Arrival: &StopTimeEvent{DelaySeconds: 240}},
		},
	}

	delay := calculateTripDelay(update)

	require.NotNil(t, delay)
	assert.Equal(t, 4, delay.Minutes)
}
