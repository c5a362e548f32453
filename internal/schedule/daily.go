package schedule

import (
	"sort"
	"time"

	"trip-guide/internal/util"
)

// Daily re-buckets raw per-day events by schedule day and orders them.
//
// Every event is tagged with the key of the raw bucket it came from
// (OriginalDate). Output keys are unique and ascending. When status is current,
// events that already happened relative to now are removed, and days left
// empty are dropped.
func Daily(raw []DailyBucket, status TripStatus, now time.Time) []DailyBucket {
	byKey := make(map[string][]ScheduleEvent)
	for _, day := range raw {
		for _, ev := range day.Items {
			ev.OriginalDate = day.Key
			key := ResolveDate(day.Key, ev.Time)
			byKey[key] = append(byKey[key], ev)
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DailyBucket, 0, len(keys))
	for _, k := range keys {
		items := byKey[k]
		sort.SliceStable(items, func(i, j int) bool {
			return AdjustedMinutes(items[i].Time) < AdjustedMinutes(items[j].Time)
		})
		out = append(out, DailyBucket{Key: k, Items: items})
	}

	if status != StatusCurrent {
		return out
	}
	return dropElapsed(out, now)
}

func dropElapsed(buckets []DailyBucket, now time.Time) []DailyBucket {
	today := util.Today(now)
	nowMinutes := util.ClockMinutes(now)

	kept := make([]DailyBucket, 0, len(buckets))
	for _, b := range buckets {
		items := make([]ScheduleEvent, 0, len(b.Items))
		for _, ev := range b.Items {
			switch {
			case ev.OriginalDate > today:
				items = append(items, ev)
			case ev.OriginalDate < today:
				// earlier day, already over
			case clockMinutes(ev.Time) > nowMinutes:
				items = append(items, ev)
			}
		}
		if len(items) == 0 {
			continue
		}
		kept = append(kept, DailyBucket{Key: b.Key, Items: items})
	}
	return kept
}

// GroupByDate builds raw buckets from a flat event list keyed by each event's Date.
// Events keep their relative input order within a day.
func GroupByDate(events []ScheduleEvent) []DailyBucket {
	byDate := make(map[string][]ScheduleEvent)
	var order []string
	for _, ev := range events {
		if _, ok := byDate[ev.Date]; !ok {
			order = append(order, ev.Date)
		}
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}
	sort.Strings(order)

	out := make([]DailyBucket, 0, len(order))
	for _, d := range order {
		out = append(out, DailyBucket{Key: d, Items: byDate[d]})
	}
	return out
}
