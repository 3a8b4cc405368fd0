package departures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bayrail/bayrail/pkg/rail"
	"github.com/bayrail/bayrail/pkg/stations"
)

type dayType int

const (
	dayTypeHoliday dayType = iota
	dayTypeWeekend
	dayTypeWeekdayPeak
	dayTypeWeekdayOffPeak
)

func classifyDay(local time.Time) dayType {
	if IsUSHoliday(local) {
		return dayTypeHoliday
	}

	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return dayTypeWeekend
	}

	hour := local.Hour()
	if (hour >= 6 && hour < 10) || (hour >= 16 && hour < 20) {
		return dayTypeWeekdayPeak
	}

	return dayTypeWeekdayOffPeak
}

func (d dayType) headwayMinutes() int {
	switch d {
	case dayTypeHoliday:
		return 60
	case dayTypeWeekend:
		return 45
	case dayTypeWeekdayPeak:
		return 20
	default:
		return 30
	}
}

func (d dayType) pickTier() rail.ServiceTier {
	roll := rand.Float64()

	switch d {
	case dayTypeHoliday, dayTypeWeekend:
		// Sparse days run locals with the odd limited
		if roll < 0.7 {
			return rail.TierLocal
		}
		return rail.TierLimited
	case dayTypeWeekdayPeak:
		switch {
		case roll < 0.4:
			return rail.TierExpress
		case roll < 0.7:
			return rail.TierLimited
		default:
			return rail.TierLocal
		}
	default:
		switch {
		case roll < 0.5:
			return rail.TierLocal
		case roll < 0.8:
			return rail.TierLimited
		default:
			return rail.TierExpress
		}
	}
}

// SyntheticSchedule fabricates 3 to 5 plausible upcoming trains for when the
// real timetable yields nothing. Callers must surface the accompanying
// synthetic flag; this data is demonstration filler, never authoritative.
func SyntheticSchedule(originID string, destinationID string, asOf time.Time, location *time.Location) []rail.Train {
	direction, err := stations.ResolveDirection(originID, destinationID)
	if err != nil {
		return nil
	}

	local := asOf.In(location)
	day := classifyDay(local)
	headway := day.headwayMinutes()

	count := 3 + rand.Intn(3)
	trains := make([]rail.Train, 0, count)

	departure := local.Add(time.Duration(5+rand.Intn(10)) * time.Minute)
	for i := 0; i < count; i++ {
		duration := 30 + rand.Intn(31)
		arrival := departure.Add(time.Duration(duration) * time.Minute)

		trains = append(trains, rail.Train{
			TrainNumber:   fmt.Sprintf("%d", 100+i*2),
			Direction:     direction,
			DepartureTime: departure.Format(time.RFC3339),
			ArrivalTime:   arrival.Format(time.RFC3339),
			Duration:      duration,
			Type:          day.pickTier(),
			Status:        rail.StatusOnTime,
		})

		jitter := rand.Intn(11) - 5
		departure = departure.Add(time.Duration(headway+jitter) * time.Minute)
	}

	return trains
}
