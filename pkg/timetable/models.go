package timetable

type Trip struct {
	RouteID     string `csv:"route_id"`
	ServiceID   string `csv:"service_id"`
	ID          string `csv:"trip_id"`
	Headsign    string `csv:"trip_headsign"`
	ShortName   string `csv:"trip_short_name"`
	DirectionID string `csv:"direction_id"`
}

type StopTime struct {
	TripID        string `csv:"trip_id"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	StopID        string `csv:"stop_id"`
	StopSequence  int    `csv:"stop_sequence"`
}

type Calendar struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	Start     string `csv:"start_date"`
	End       string `csv:"end_date"`
}

// RunsOn reports whether the weekly pattern includes the given weekday
// (time.Weekday numbering, Sunday = 0).
func (c *Calendar) RunsOn(weekday int) bool {
	switch weekday {
	case 0:
		return c.Sunday == 1
	case 1:
		return c.Monday == 1
	case 2:
		return c.Tuesday == 1
	case 3:
		return c.Wednesday == 1
	case 4:
		return c.Thursday == 1
	case 5:
		return c.Friday == 1
	case 6:
		return c.Saturday == 1
	}

	return false
}

const (
	ExceptionServiceAdded   = 1
	ExceptionServiceRemoved = 2
)

type CalendarDate struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}
