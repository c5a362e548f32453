package util

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DateClass places a calendar date relative to today.
type DateClass string

const (
	DatePast    DateClass = "past"
	DateCurrent DateClass = "current"
	DateFuture  DateClass = "future"
)

// Trip status values as computed from a trip's date range.
const (
	StatusUpcoming = "upcoming"
	StatusCurrent  = "current"
	StatusPast     = "past"
)

// ParseDateLocal parses a date string in YYYY-MM-DD format and returns it in local timezone.
// The calendar day is preserved: "2025-03-01" is March 1st at local midnight regardless of
// the UTC offset.
func ParseDateLocal(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

// IsDate reports whether s is a well-formed YYYY-MM-DD date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate renders t's calendar day in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns now's calendar day as YYYY-MM-DD, in now's location.
func Today(now time.Time) string {
	return FormatDate(now)
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
// An unparseable date is returned unchanged.
func AddDays(date string, n int) string {
	d, err := ParseDateLocal(date)
	if err != nil {
		return date
	}
	return FormatDate(d.AddDate(0, 0, n))
}

// DaysBetween returns the number of calendar days from a to b (negative when b is before a).
func DaysBetween(a, b string) (int, error) {
	da, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", a, err)
	}
	db, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", b, err)
	}
	return int(db.Sub(da).Hours() / 24), nil
}

// ClassifyDate reports whether date is before, on, or after now's calendar day.
// YYYY-MM-DD strings order lexically, so no parsing is needed.
func ClassifyDate(date string, now time.Time) DateClass {
	today := Today(now)
	switch {
	case date < today:
		return DatePast
	case date > today:
		return DateFuture
	default:
		return DateCurrent
	}
}

// TripStatusFor classifies a trip spanning [start, end] (inclusive) relative to now.
func TripStatusFor(start, end string, now time.Time) string {
	today := Today(now)
	switch {
	case today < start:
		return StatusUpcoming
	case end != "" && today > end:
		return StatusPast
	default:
		return StatusCurrent
	}
}

// ClockMinutes returns minutes since midnight of t's wall clock.
func ClockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ValidateDateRange checks that both dates are well formed and start is not after end.
func ValidateDateRange(start, end string) error {
	if !IsDate(start) {
		return fmt.Errorf("start date must be YYYY-MM-DD")
	}
	if !IsDate(end) {
		return fmt.Errorf("end date must be YYYY-MM-DD")
	}
	if start > end {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}
