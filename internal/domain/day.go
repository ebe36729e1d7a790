package domain

import "time"

// All date comparisons in the system happen at day granularity: timestamps
// are truncated to the start of the calendar day in UTC before use.

const dayLayout = "2006-01-02"

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// DayKey formats t as YYYY-MM-DD, the canonical storage key for a day.
func DayKey(t time.Time) string {
	return StartOfDay(t).Format(dayLayout)
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return StartOfDay(t).Format("2006-01")
}

// ParseDay parses a YYYY-MM-DD key back into a start-of-day timestamp.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.UTC)
}
