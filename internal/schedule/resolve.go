package schedule

import (
	"strconv"
	"strings"

	"trip-guide/internal/util"
)

// dayBoundaryHour is the hour at which a new schedule day starts.
const dayBoundaryHour = 6

// parseClock splits "HH:MM" leniently. Missing or non-numeric parts are 0 and
// hour 24 is folded to 0.
func parseClock(t string) (hour, minute int) {
	parts := strings.SplitN(strings.TrimSpace(t), ":", 3)
	hour = atoiOrZero(parts[0])
	if len(parts) > 1 {
		minute = atoiOrZero(parts[1])
	}
	if hour == 24 {
		hour = 0
	}
	return hour, minute
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// clockMinutes is minutes since midnight of the wall-clock time.
func clockMinutes(t string) int {
	h, m := parseClock(t)
	return h*60 + m
}

// AdjustedMinutes orders times within a schedule day: early-morning hours
// count as hour+24 so a 1am show sorts after an 11pm one.
func AdjustedMinutes(t string) int {
	h, m := parseClock(t)
	if h < dayBoundaryHour {
		h += 24
	}
	return h*60 + m
}

// ResolveDate returns the schedule day an event at eventTime on calendarDay is
// listed under. Times before 06:00 belong to the previous day's night.
func ResolveDate(calendarDay, eventTime string) string {
	h, _ := parseClock(eventTime)
	if h < dayBoundaryHour {
		return util.AddDays(calendarDay, -1)
	}
	return calendarDay
}
