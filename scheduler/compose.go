// Package scheduler turns a chosen date, time, and timezone into a concrete
// publication instant, drives the submission flow, and publishes due posts.
package scheduler

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultClock is used when the user leaves the time field empty.
	DefaultClock    = "12:00"
	DefaultTimezone = "Europe/Moscow"
)

var (
	// ErrNoDate blocks submission without an error display: the submit
	// control stays disabled until a date is chosen.
	ErrNoDate   = errors.New("no date selected")
	ErrPastDate = errors.New("date is in the past")
)

// ComposeInstant combines a calendar date ("2006-01-02"), a wall-clock time
// ("15:04", defaulting to 12:00), and an IANA zone into a UTC instant.
func ComposeInstant(date, clock, timezone string) (time.Time, error) {
	if date == "" {
		return time.Time{}, ErrNoDate
	}
	if clock == "" {
		clock = DefaultClock
	}
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule date: %w", err)
	}
	return t.UTC(), nil
}

// ValidateDate rejects calendar days before today in the chosen zone. Today
// is allowed regardless of time-of-day; the comparison is by date, not
// instant.
func ValidateDate(date, timezone string, now time.Time) error {
	if date == "" {
		return ErrNoDate
	}
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	if date < now.In(loc).Format("2006-01-02") {
		return ErrPastDate
	}
	return nil
}
