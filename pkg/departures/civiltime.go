package departures

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseGTFSTime splits a timetable time value ("HH:MM:SS"). Hour values of
// 24 and above are legal and mean post-midnight service on the same service
// day.
func ParseGTFSTime(value string) (hour int, minute int, second int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed timetable time %q", value)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed timetable time %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed timetable time %q", value)
	}
	second, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed timetable time %q", value)
	}

	if hour < 0 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("malformed timetable time %q", value)
	}

	return hour, minute, second, nil
}

// LocalCivilInstant converts a service date plus a timetable time into an
// absolute instant. The hour's whole days roll the date forward first, and
// the UTC offset is the one in force on that rolled-forward date — not on
// the service date — so trips crossing a daylight-saving transition land on
// the correct instant.
func LocalCivilInstant(serviceDate time.Time, hour int, minute int, second int, location *time.Location) time.Time {
	local := serviceDate.In(location)

	dayOffset := hour / 24
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location).AddDate(0, 0, dayOffset)

	return time.Date(date.Year(), date.Month(), date.Day(), hour%24, minute, second, 0, location)
}
