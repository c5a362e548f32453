package guide

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"trip-guide/internal/util"
)

// FormatClock renders "HH:MM" as "3:04 PM". Unparseable input is returned as is.
func FormatClock(clock string) string {
	t, err := time.Parse("15:04", normalizeClock(clock))
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

func normalizeClock(clock string) string {
	if strings.HasPrefix(clock, "24:") {
		return "00:" + strings.TrimPrefix(clock, "24:")
	}
	if len(clock) == 4 && clock[1] == ':' {
		return "0" + clock
	}
	return clock
}

// FormatDayLabel renders a date as "Tuesday, June 10".
func FormatDayLabel(date string) string {
	t, err := util.ParseDateLocal(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}

// StartsIn describes how far away the trip start is, such as "in 3 days".
// It is empty once the start date is today or past.
func StartsIn(start string, now time.Time) string {
	// Both dates in UTC so a DST change does not shorten the span.
	startDay, err := time.Parse(util.DateLayout, start)
	if err != nil {
		return ""
	}
	today, err := time.Parse(util.DateLayout, util.Today(now))
	if err != nil || !startDay.After(today) {
		return ""
	}
	return "in " + strings.TrimSpace(humanize.RelTime(startDay, today, "", ""))
}

// Since describes how long ago t was, such as "3 hours ago".
func Since(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
