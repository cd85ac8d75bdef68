// utils/dates.go
package utils

import (
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is how booking and availability dates are stored.
const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from start to end, each taken in its own
// location. Days shortened or lengthened by DST still count as one.
func DaysBetween(start, end time.Time) int {
	return int(civilDay(end).Sub(civilDay(start)).Hours() / 24)
}

func civilDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2025-03-14", ISO timestamps from date pickers and
// other common layouts, interpreted in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return BeginningOfDay(t.In(loc)), nil
}

// NormalizeDate rewrites any accepted date into DateLayout.
func NormalizeDate(value string, loc *time.Location) (string, error) {
	t, err := ParseDate(value, loc)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
