package schedule

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarOptions describes the calendar produced by ICS.
type CalendarOptions struct {
	Name     string
	Slug     string
	Location *time.Location
	// Duration is applied to every event; defaults to one hour.
	Duration time.Duration
	// Stamp is written as DTSTAMP; defaults to time.Now.
	Stamp time.Time
}

// ICS renders normalized buckets as an iCalendar document. Each event starts at
// its OriginalDate (falling back to Date, then the bucket key) and Time.
func ICS(buckets []DailyBucket, opts CalendarOptions) string {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Duration <= 0 {
		opts.Duration = time.Hour
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//trip-guide//schedule//EN")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, b := range buckets {
		for _, ev := range b.Items {
			date := firstNonEmpty(ev.OriginalDate, ev.Date, b.Key)
			start, err := eventStart(date, ev.Time, opts.Location)
			if err != nil {
				continue
			}
			uid := fmt.Sprintf("%s-%d-%s-%s@trip-guide", opts.Slug, ev.ID, date, strings.ReplaceAll(ev.Time, ":", ""))
			ve := cal.AddEvent(uid)
			ve.SetDtStampTime(opts.Stamp)
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(opts.Duration))
			ve.SetSummary(ev.Title)
			if ev.Venue != "" {
				ve.SetLocation(ev.Venue)
			}
			if desc := describe(ev); desc != "" {
				ve.SetDescription(desc)
			}
		}
	}
	return cal.Serialize()
}

func eventStart(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidEventAt, date)
	}
	h, m := parseClock(clock)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), nil
}

func describe(ev ScheduleEvent) string {
	parts := make([]string, 0, 2)
	if ev.Description != "" {
		parts = append(parts, ev.Description)
	}
	if len(ev.Talent) > 0 {
		names := make([]string, 0, len(ev.Talent))
		for _, t := range ev.Talent {
			names = append(names, t.Name)
		}
		parts = append(parts, "With "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "\n")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
