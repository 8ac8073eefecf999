package utils

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

const DateLayout = "2006-01-02"

// DateOf returns the calendar day of t as seen in loc, as midnight UTC.
// All stay dates are stored in this form so day comparisons never depend on the server's zone.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	day := now.With(t.In(loc)).BeginningOfDay()
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DaysBetween counts whole calendar days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	da := DateOf(a, time.UTC)
	db := DateOf(b, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// AddDays moves a date by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// MonthRange returns the first day of the month containing t and the first day of the next month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := now.With(DateOf(t, time.UTC)).BeginningOfMonth()
	return start, start.AddDate(0, 1, 0)
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return t, nil
}
