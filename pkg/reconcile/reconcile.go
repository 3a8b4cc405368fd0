package reconcile

import (
	"math/rand"
	"strings"

	"github.com/bayrail/bayrail/pkg/alertscraper"
	"github.com/bayrail/bayrail/pkg/rail"
	"github.com/bayrail/bayrail/pkg/realtime"
	"github.com/bayrail/bayrail/pkg/stations"
)

// Source attribution values carried on reconciled trains.
const (
	SourceRealtimeFeed = "gtfs-realtime"
	SourceTrainAlert   = alertscraper.SourceName
	SourceSystemAlert  = "system-alert"
	SourceSocial       = "social"
	SourceSynthetic    = "synthetic"
)

// DelayContext bundles everything the delay sources produced for one
// request. All fetching has already happened (and been joined) by the time a
// context is built; reconciliation itself is pure.
type DelayContext struct {
	TripUpdates      []realtime.TripUpdate
	AlertDelays      map[string]alertscraper.TrainDelay
	SystemWideAlerts []alertscraper.Alert
	SocialDelays     map[string]int
}

// Empty reports whether every source came back with nothing at all.
func (c *DelayContext) Empty() bool {
	return len(c.TripUpdates) == 0 &&
		len(c.AlertDelays) == 0 &&
		len(c.SystemWideAlerts) == 0 &&
		len(c.SocialDelays) == 0
}

// ProjectedDelayMinutes resolves the delay used for departure filtering:
// the binary feed whenever it covers the trip (a feed zero is as
// authoritative here as in Apply), the train-specific text alert otherwise.
// This deliberately ignores the lower tiers; filtering only needs the
// authoritative sources.
func (c *DelayContext) ProjectedDelayMinutes(tripID string, trainNumber string) int {
	if delay := realtime.TripDelay(c.TripUpdates, tripID, trainNumber); delay != nil {
		return delay.Minutes
	}

	if alertDelay, exists := c.AlertDelays[trainNumber]; exists {
		return alertDelay.DelayMinutes
	}

	return 0
}

// Apply resolves one delay and status per train. The source priority is
// fixed per train and independent of fetch completion order:
//
//  1. binary feed — an explicit zero from the feed is authoritative and
//     short-circuits everything below
//  2. train-specific text alert, only when strictly positive
//  3. system-wide text alert whose direction matches, in original alert order
//  4. social feed
//
// When every source is empty the whole result set falls back to a synthetic
// delay distribution and the returned flag is true; synthetic data is never
// mixed silently with real observations.
func Apply(trains []rail.Train, delayCtx DelayContext) ([]rail.Train, bool) {
	if delayCtx.Empty() {
		for index := range trains {
			applySynthetic(&trains[index])
		}
		return trains, true
	}

	for index := range trains {
		train := &trains[index]

		if delay := realtime.TripDelay(delayCtx.TripUpdates, train.TripID, train.TrainNumber); delay != nil {
			train.Delay = delay.Minutes
			train.Status = delay.Status
			train.DelaySource = SourceRealtimeFeed
			continue
		}

		if alertDelay, exists := delayCtx.AlertDelays[train.TrainNumber]; exists && alertDelay.DelayMinutes > 0 {
			train.Delay = alertDelay.DelayMinutes
			train.Status = rail.StatusDelayed
			train.DelaySource = SourceTrainAlert
			continue
		}

		if alert := matchSystemWide(delayCtx.SystemWideAlerts, train.Direction); alert != nil {
			train.Delay = alert.DelayMinutes
			train.Status = rail.StatusDelayed
			train.DelaySource = SourceSystemAlert
			continue
		}

		if minutes, exists := delayCtx.SocialDelays[train.TrainNumber]; exists {
			train.Delay = minutes
			train.Status = rail.StatusOnTime
			if minutes != 0 {
				train.Status = rail.StatusDelayed
			}
			train.DelaySource = SourceSocial
			continue
		}

		train.Delay = 0
		train.Status = rail.StatusOnTime
		train.DelaySource = ""
	}

	return trains, false
}

// matchSystemWide finds the first system-wide alert affecting the given
// travel direction, in the alerts' original order.
func matchSystemWide(alerts []alertscraper.Alert, direction stations.Direction) *alertscraper.Alert {
	trainDirection := strings.ToLower(string(direction))

	for index, alert := range alerts {
		if alert.Direction == "both" || alert.Direction == "" || alert.Direction == trainDirection {
			return &alerts[index]
		}
	}

	return nil
}

// applySynthetic assigns a demonstration delay: 70% on time, 25% delayed by
// 3 to 17 minutes, 5% cancelled.
func applySynthetic(train *rail.Train) {
	train.DelaySource = SourceSynthetic

	roll := rand.Float64()
	switch {
	case roll < 0.70:
		train.Delay = 0
		train.Status = rail.StatusOnTime
	case roll < 0.95:
		train.Delay = 3 + rand.Intn(15)
		train.Status = rail.StatusDelayed
	default:
		train.Delay = 0
		train.Status = rail.StatusCancelled
	}
}
