package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for scope dates.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for roster times of day.
const ClockLayout = "15:04"

// ParseDate parses a YYYY-MM-DD string as midnight in the given location.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// CombineDateClock anchors an HH:MM time of day onto a calendar date in the
// given location.
func CombineDateClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	c, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// SameLocalDate reports whether the instant falls on the given calendar date
// when rendered in the location.
func SameLocalDate(t time.Time, date string, loc *time.Location) bool {
	return t.In(loc).Format(DateLayout) == date
}

// Clock renders the instant as HH:MM in the location.
func Clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}
