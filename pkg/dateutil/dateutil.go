package dateutil

import "time"

// DateLayout is the DD.MM.YYYY layout used for birthdays and congratulation dates
const DateLayout = "02.01.2006"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// CalendarDate strips time and location, returning the same calendar day at UTC midnight.
// Day arithmetic on calendar dates is exact (no DST shifts).
func CalendarDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// DaysBetween returns the number of calendar days from one date to another (negative if to is earlier)
func DaysBetween(from, to time.Time) int {
	return int(CalendarDate(to).Sub(CalendarDate(from)).Hours() / 24)
}

// NextWeekday returns the first date strictly after start that falls on weekday.
// If start is already that weekday, the result is one week later.
func NextWeekday(start time.Time, weekday time.Weekday) time.Time {
	daysAhead := mondayIndex(weekday) - mondayIndex(start.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return start.AddDate(0, 0, daysAhead)
}

// AdjustForWeekend moves Saturday and Sunday to the following Monday
func AdjustForWeekend(date time.Time) time.Time {
	if IsWeekend(date) {
		return NextWeekday(date, time.Monday)
	}
	return date
}

// FormatDate formats date as DD.MM.YYYY
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses a DD.MM.YYYY string into a calendar date (UTC midnight)
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}

// mondayIndex maps time.Weekday to 0=Monday ... 6=Sunday
func mondayIndex(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}
