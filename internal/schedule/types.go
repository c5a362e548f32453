// Package schedule turns a trip's per-day event lists into display buckets.
//
// Late-night events are grouped with the evening they belong to: anything before
// 06:00 is listed under the previous calendar day, and sorts after that day's
// evening events.
package schedule

import (
	"fmt"
	"strings"
)

// TalentRef names a performer attached to an event.
type TalentRef struct {
	Name string `json:"name"`
}

// ScheduleEvent is one occurrence on the trip schedule.
type ScheduleEvent struct {
	ID           int64       `json:"id,omitempty"`
	Time         string      `json:"time"`
	Title        string      `json:"title"`
	Venue        string      `json:"venue,omitempty"`
	Talent       []TalentRef `json:"talent,omitempty"`
	Date         string      `json:"date,omitempty"`
	OriginalDate string      `json:"originalDate,omitempty"`
	EventType    string      `json:"type,omitempty"`
	PartyThemeID int64       `json:"partyThemeId,omitempty"`
	Description  string      `json:"description,omitempty"`
	// Recurrence is an RRULE body such as "FREQ=DAILY;COUNT=4".
	Recurrence string `json:"recurrence,omitempty"`
}

// DailyBucket holds the events listed under one day.
type DailyBucket struct {
	Key   string          `json:"key"`
	Items []ScheduleEvent `json:"items"`
}

// TripStatus drives whether elapsed events are hidden.
type TripStatus string

const (
	StatusUpcoming TripStatus = "upcoming"
	StatusCurrent  TripStatus = "current"
	StatusPast     TripStatus = "past"
)

// ParseTripStatus accepts the status vocabulary used across the CMS.
// "active" is an older spelling of "current".
func ParseTripStatus(s string) (TripStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upcoming":
		return StatusUpcoming, nil
	case "current", "active":
		return StatusCurrent, nil
	case "past":
		return StatusPast, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// CountEvents returns the number of events across all buckets.
func CountEvents(buckets []DailyBucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Items)
	}
	return n
}
