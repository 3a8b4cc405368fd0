package departures

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/bayrail/bayrail/pkg/rail"
	"github.com/bayrail/bayrail/pkg/reconcile"
	"github.com/bayrail/bayrail/pkg/stations"
	"github.com/bayrail/bayrail/pkg/timetable"
)

const maxResults = 5

// Planner expands the static timetable into concrete upcoming departures for
// a station pair.
type Planner struct {
	Store *timetable.Store
}

func NewPlanner(store *timetable.Store) *Planner {
	return &Planner{Store: store}
}

type candidate struct {
	train     rail.Train
	departure time.Time
}

// UpcomingTrains returns at most the next five trips between the two
// stations at the given instant. Trips whose projected departure (scheduled
// plus reconciled delay) is already past are dropped; the delay never
// mutates the scheduled timestamps themselves. Any malformed timetable row
// fails the whole computation closed to an empty list — callers fall back to
// the synthetic schedule.
//
// A client input error (unknown station) is returned as an error; a missing
// or empty timetable is not.
func (p *Planner) UpcomingTrains(originID string, destinationID string, asOf time.Time, delayCtx reconcile.DelayContext) ([]rail.Train, error) {
	origin := stations.GetByID(originID)
	destination := stations.GetByID(destinationID)
	if origin == nil || destination == nil {
		return nil, fmt.Errorf("unknown station pair %q -> %q", originID, destinationID)
	}

	direction, err := stations.ResolveDirection(originID, destinationID)
	if err != nil {
		return nil, err
	}

	tables, err := p.Store.EnsureLoaded()
	if err != nil {
		log.Warn().Err(err).Msg("No timetable available")
		return nil, nil
	}

	serviceID := p.Store.ActiveServiceOn(asOf, tables)
	if serviceID == "" {
		log.Info().Time("asof", asOf).Msg("No calendar service operates on this date")
		return nil, nil
	}

	originStopID, err := origin.GTFSStopID(direction)
	if err != nil {
		log.Warn().Err(err).Msg("Origin station has no stop mapping")
		return nil, nil
	}
	destinationStopID, err := destination.GTFSStopID(direction)
	if err != nil {
		log.Warn().Err(err).Msg("Destination station has no stop mapping")
		return nil, nil
	}

	var candidates []candidate
	for _, trip := range tables.TripsForService(serviceID) {
		if trip.DirectionID != direction.GTFSDirectionID() {
			continue
		}

		originStop := tables.StopTimeAt(trip.ID, originStopID)
		destinationStop := tables.StopTimeAt(trip.ID, destinationStopID)
		if originStop == nil || destinationStop == nil {
			continue
		}

		depHour, depMinute, depSecond, err := ParseGTFSTime(originStop.DepartureTime)
		if err != nil {
			log.Error().Err(err).Str("trip", trip.ID).Msg("Malformed stop time, aborting schedule computation")
			return nil, nil
		}
		arrHour, arrMinute, arrSecond, err := ParseGTFSTime(destinationStop.ArrivalTime)
		if err != nil {
			log.Error().Err(err).Str("trip", trip.ID).Msg("Malformed stop time, aborting schedule computation")
			return nil, nil
		}

		departure := LocalCivilInstant(asOf, depHour, depMinute, depSecond, p.Store.Location)
		arrival := LocalCivilInstant(asOf, arrHour, arrMinute, arrSecond, p.Store.Location)

		trainNumber := trip.ShortName
		if trainNumber == "" {
			trainNumber = trip.ID
		}

		// Delay shifts the departure for filtering purposes only
		projected := departure.Add(time.Duration(delayCtx.ProjectedDelayMinutes(trip.ID, trainNumber)) * time.Minute)
		if !projected.After(asOf) {
			continue
		}

		candidates = append(candidates, candidate{
			train: rail.Train{
				TrainNumber:   trainNumber,
				TripID:        trip.ID,
				Direction:     direction,
				DepartureTime: departure.Format(time.RFC3339),
				ArrivalTime:   arrival.Format(time.RFC3339),
				Duration:      int(arrival.Sub(departure).Round(time.Minute) / time.Minute),
				Type:          rail.ClassifyTier(tables.StopCount(trip.ID)),
			},
			departure: departure,
		})
	}

	slices.SortFunc(candidates, func(a candidate, b candidate) int {
		return a.departure.Compare(b.departure)
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	trains := make([]rail.Train, 0, len(candidates))
	for _, entry := range candidates {
		trains = append(trains, entry.train)
	}

	return trains, nil
}
