// internal/utils/dates.go
package utils

import (
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf returns the calendar day of t as seen in loc, expressed as UTC
// midnight. All entry dates and analytics windows use this representation.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) time.Time {
	return DateOf(time.Now(), loc)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// AddDays moves a date by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}
