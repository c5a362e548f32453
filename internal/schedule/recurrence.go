package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"trip-guide/internal/util"
)

// maxOccurrencesPerEvent caps expansion of open-ended rules.
const maxOccurrencesPerEvent = 366

// ExpandRecurring replaces every event carrying a Recurrence rule with one
// concrete event per occurrence inside the trip's [start, end] range, placed
// in the bucket of its occurrence date. Occurrences in the small hours after
// the last day are kept, since they belong to the last night.
//
// Events whose rule cannot be parsed are kept as single events; the returned
// error joins one ErrInvalidRule per such event.
func ExpandRecurring(raw []DailyBucket, start, end string, loc *time.Location) ([]DailyBucket, error) {
	if loc == nil {
		loc = time.Local
	}
	rangeStart, err := time.ParseInLocation(util.DateLayout, start, loc)
	if err != nil {
		return raw, fmt.Errorf("%w: trip start %q", ErrInvalidEventAt, start)
	}
	lastDay, err := time.ParseInLocation(util.DateLayout, end, loc)
	if err != nil {
		return raw, fmt.Errorf("%w: trip end %q", ErrInvalidEventAt, end)
	}
	rangeEnd := lastDay.AddDate(0, 0, 1).Add(dayBoundaryHour*time.Hour - time.Second)

	byDate := make(map[string][]ScheduleEvent)
	var errs []error
	for _, day := range raw {
		for _, ev := range day.Items {
			if ev.Recurrence == "" {
				byDate[day.Key] = append(byDate[day.Key], ev)
				continue
			}
			occ, err := occurrences(day.Key, ev, loc, rangeStart, rangeEnd)
			if err != nil {
				errs = append(errs, err)
				byDate[day.Key] = append(byDate[day.Key], ev)
				continue
			}
			for _, t := range occ {
				inst := ev
				inst.Date = t.Format(util.DateLayout)
				inst.Time = t.Format("15:04")
				inst.Recurrence = ""
				byDate[inst.Date] = append(byDate[inst.Date], inst)
			}
		}
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DailyBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, DailyBucket{Key: k, Items: byDate[k]})
	}
	return out, errors.Join(errs...)
}

func occurrences(date string, ev ScheduleEvent, loc *time.Location, from, to time.Time) ([]time.Time, error) {
	rule := strings.TrimPrefix(strings.TrimSpace(ev.Recurrence), "RRULE:")
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: event %d %q: %v", ErrInvalidRule, ev.ID, ev.Recurrence, err)
	}
	day, err := time.ParseInLocation(util.DateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: event %d date %q", ErrInvalidEventAt, ev.ID, date)
	}
	h, m := parseClock(ev.Time)
	r.DTStart(time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc))

	times := r.Between(from, to, true)
	if len(times) > maxOccurrencesPerEvent {
		times = times[:maxOccurrencesPerEvent]
	}
	for i := range times {
		times[i] = times[i].In(loc)
	}
	return times, nil
}

// ValidateRule reports whether rule is an RRULE the expander accepts.
func ValidateRule(rule string) error {
	if _, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidRule, rule, err)
	}
	return nil
}
