package departures

import "time"

// IsUSHoliday reports whether the given date is one of the fixed federal
// holidays the synthetic schedule cares about: New Year's Day, Memorial Day,
// Independence Day, Labor Day, Thanksgiving, Christmas. It is a pure
// calendar-date rule and can disagree with the timetable's own calendar
// exceptions.
func IsUSHoliday(date time.Time) bool {
	month := date.Month()
	day := date.Day()

	switch month {
	case time.January:
		return day == 1
	case time.May:
		// Memorial Day, last Monday of May
		return date.Weekday() == time.Monday && day+7 > 31
	case time.July:
		return day == 4
	case time.September:
		// Labor Day, first Monday of September
		return date.Weekday() == time.Monday && day <= 7
	case time.November:
		// Thanksgiving, fourth Thursday of November
		return date.Weekday() == time.Thursday && day >= 22 && day <= 28
	case time.December:
		return day == 25
	}

	return false
}
