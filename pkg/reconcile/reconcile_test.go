package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayrail/bayrail/pkg/alertscraper"
	"github.com/bayrail/bayrail/pkg/rail"
	"github.com/bayrail/bayrail/pkg/realtime"
	"github.com/bayrail/bayrail/pkg/stations"
)

func northbound(trainNumber string, tripID string) rail.Train {
	return rail.Train{
		TrainNumber: trainNumber,
		TripID:      tripID,
		Direction:   stations.DirectionNorthbound,
	}
}

func feedUpdate(tripID string, delaySeconds int) realtime.TripUpdate {
	return realtime.TripUpdate{
		TripID: tripID,
		StopTimeUpdates: []realtime.StopTimeUpdate{
			{StopID: "70011", Departure: &realtime.StopTimeEvent{DelaySeconds: delaySeconds}},
		},
	}
}

func TestApplyFeedWins(t *testing.T) {
	delayCtx := DelayContext{
		TripUpdates: []realtime.TripUpdate{feedUpdate("trip-130", 600)},
		AlertDelays: map[string]alertscraper.TrainDelay{
			"130": {TrainNumber: "130", DelayMinutes: 45},
		},
		SocialDelays: map[string]int{"130": 99},
	}

	trains, synthetic := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.False(t, synthetic)
	require.Len(t, trains, 1)
	assert.Equal(t, 10, trains[0].Delay)
	assert.Equal(t, rail.StatusDelayed, trains[0].Status)
	assert.Equal(t, SourceRealtimeFeed, trains[0].DelaySource)
}

// A feed that explicitly reports zero delay overrides a text alert claiming
// the train is late.
func TestApplyFeedZeroIsAuthoritative(t *testing.T) {
	delayCtx := DelayContext{
		TripUpdates: []realtime.TripUpdate{feedUpdate("trip-130", 0)},
		AlertDelays: map[string]alertscraper.TrainDelay{
			"130": {TrainNumber: "130", DelayMinutes: 45},
		},
	}

	trains, _ := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.Equal(t, 0, trains[0].Delay)
	assert.Equal(t, rail.StatusOnTime, trains[0].Status)
	assert.Equal(t, SourceRealtimeFeed, trains[0].DelaySource)
}

func TestApplyAlertWhenFeedSilent(t *testing.T) {
	delayCtx := DelayContext{
		TripUpdates: []realtime.TripUpdate{feedUpdate("trip-999", 300)},
		AlertDelays: map[string]alertscraper.TrainDelay{
			"130": {TrainNumber: "130", DelayMinutes: 25},
		},
		SocialDelays: map[string]int{"130": 5},
	}

	trains, _ := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.Equal(t, 25, trains[0].Delay)
	assert.Equal(t, SourceTrainAlert, trains[0].DelaySource)
}

func TestApplyZeroAlertFallsThrough(t *testing.T) {
	delayCtx := DelayContext{
		AlertDelays: map[string]alertscraper.TrainDelay{
			"130": {TrainNumber: "130", DelayMinutes: 0},
		},
		SocialDelays: map[string]int{"130": 7},
	}

	trains, _ := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.Equal(t, 7, trains[0].Delay)
	assert.Equal(t, SourceSocial, trains[0].DelaySource)
}

func TestApplySystemWideMatchesDirection(t *testing.T) {
	delayCtx := DelayContext{
		SystemWideAlerts: []alertscraper.Alert{
			{Direction: "southbound", DelayMinutes: 30, SystemWide: true},
			{Direction: "northbound", DelayMinutes: 15, SystemWide: true},
		},
	}

	trains, _ := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.Equal(t, 15, trains[0].Delay)
	assert.Equal(t, SourceSystemAlert, trains[0].DelaySource)
}

func TestApplySystemWideBothDirections(t *testing.T) {
	delayCtx := DelayContext{
		SystemWideAlerts: []alertscraper.Alert{
			{Direction: "both", DelayMinutes: 20, SystemWide: true},
		},
	}

	trains, _ := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.Equal(t, 20, trains[0].Delay)
	assert.Equal(t, rail.StatusDelayed, trains[0].Status)
}

func TestApplySocialOnTimeReport(t *testing.T) {
	delayCtx := DelayContext{
		SocialDelays: map[string]int{"130": 0},
	}

	trains, _ := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.Equal(t, 0, trains[0].Delay)
	assert.Equal(t, rail.StatusOnTime, trains[0].Status)
	assert.Equal(t, SourceSocial, trains[0].DelaySource)
}

func TestApplyNoSourceCoversTrain(t *testing.T) {
	delayCtx := DelayContext{
		SocialDelays: map[string]int{"999": 5},
	}

	trains, synthetic := Apply([]rail.Train{northbound("130", "trip-130")}, delayCtx)

	assert.False(t, synthetic)
	assert.Equal(t, 0, trains[0].Delay)
	assert.Equal(t, rail.StatusOnTime, trains[0].Status)
	assert.Empty(t, trains[0].DelaySource)
}

func TestApplySyntheticWhenAllSourcesEmpty(t *testing.T) {
	trains := make([]rail.Train, 40)
	for index := range trains {
		trains[index] = northbound("130", "trip-130")
	}

	trains, synthetic := Apply(trains, DelayContext{})

	assert.True(t, synthetic)
	for _, train := range trains {
		assert.Equal(t, SourceSynthetic, train.DelaySource)

		switch train.Status {
		case rail.StatusOnTime, rail.StatusCancelled:
			assert.Equal(t, 0, train.Delay)
		case rail.StatusDelayed:
			assert.GreaterOrEqual(t, train.Delay, 3)
			assert.LessOrEqual(t, train.Delay, 17)
		}
	}
}

// A feed that explicitly reports zero must also win for filtering purposes,
// or a stale alert could keep a confirmed on-time train listed past its
// departure while Apply serves it as on time.
func TestProjectedDelayMinutesFeedZeroBeatsAlert(t *testing.T) {
	delayCtx := DelayContext{
		TripUpdates: []realtime.TripUpdate{feedUpdate("trip-130", 0)},
		AlertDelays: map[string]alertscraper.TrainDelay{
			"130": {TrainNumber: "130", DelayMinutes: 45},
		},
	}

	assert.Equal(t, 0, delayCtx.ProjectedDelayMinutes("trip-130", "130"))
}

func TestProjectedDelayMinutes(t *testing.T) {
	delayCtx := DelayContext{
		TripUpdates: []realtime.TripUpdate{feedUpdate("trip-130", 600)},
		AlertDelays: map[string]alertscraper.TrainDelay{
			"155": {TrainNumber: "155", DelayMinutes: 25},
		},
	}

	assert.Equal(t, 10, delayCtx.ProjectedDelayMinutes("trip-130", "130"))
	assert.Equal(t, 25, delayCtx.ProjectedDelayMinutes("trip-155", "155"))
	assert.Equal(t, 0, delayCtx.ProjectedDelayMinutes("trip-999", "999"))
}
