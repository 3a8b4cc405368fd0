package rail

import "github.com/bayrail/bayrail/pkg/stations"

type Status string

const (
	StatusOnTime    Status = "on-time"
	StatusDelayed   Status = "delayed"
	StatusCancelled Status = "cancelled"
)

type ServiceTier string

const (
	TierLocal   ServiceTier = "Local"
	TierLimited ServiceTier = "Limited"
	TierExpress ServiceTier = "Express"
)

// ClassifyTier derives the service tier from how many stops the trip makes
// across the whole line. The thresholds are properties of this route, not of
// the timetable: locals call at 20 or more stations, limiteds skip down to
// 13, anything sparser runs express.
func ClassifyTier(stopCount int) ServiceTier {
	switch {
	case stopCount >= 20:
		return TierLocal
	case stopCount >= 13:
		return TierLimited
	default:
		return TierExpress
	}
}

// Train is one upcoming reconciled departure as served to clients. Delay and
// Status are always set together, with DelaySource naming the winning source
// (empty when no source spoke for this train).
type Train struct {
	TrainNumber string             `json:"train_number" groups:"basic"`
	TripID      string             `json:"trip_id,omitempty" groups:"detailed"`
	Direction   stations.Direction `json:"direction" groups:"basic"`

	DepartureTime string `json:"departure_time" groups:"basic"`
	ArrivalTime   string `json:"arrival_time" groups:"basic"`
	Duration      int    `json:"duration" groups:"basic"`

	Type ServiceTier `json:"type" groups:"basic"`

	Delay       int    `json:"delay" groups:"basic"`
	Status      Status `json:"status" groups:"basic"`
	DelaySource string `json:"delay_source,omitempty" groups:"basic"`
}
