package schedule

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRecurring_Daily(t *testing.T) {
	raw := []DailyBucket{
		{Key: "2025-06-01", Items: []ScheduleEvent{
			{ID: 7, Time: "07:30", Title: "Sunrise Yoga", Recurrence: "FREQ=DAILY;COUNT=3"},
			{ID: 8, Time: "21:00", Title: "Welcome Party"},
		}},
	}

	out, err := ExpandRecurring(raw, "2025-06-01", "2025-06-08", time.UTC)
	require.NoError(t, err)

	require.Equal(t, []string{"2025-06-01", "2025-06-02", "2025-06-03"}, keys(out))
	assert.Equal(t, []string{"Sunrise Yoga", "Welcome Party"}, titles(out[0]))
	for _, b := range out[1:] {
		require.Len(t, b.Items, 1)
		assert.Equal(t, "07:30", b.Items[0].Time)
		assert.Equal(t, b.Key, b.Items[0].Date)
		assert.Empty(t, b.Items[0].Recurrence)
	}
}

func TestExpandRecurring_ClipsToTrip(t *testing.T) {
	raw := []DailyBucket{
		{Key: "2025-06-06", Items: []ScheduleEvent{{ID: 1, Time: "08:00", Title: "Gym", Recurrence: "RRULE:FREQ=DAILY"}}},
	}

	out, err := ExpandRecurring(raw, "2025-06-01", "2025-06-08", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-06", "2025-06-07", "2025-06-08"}, keys(out))
}

func TestExpandRecurring_KeepsLastNight(t *testing.T) {
	raw := []DailyBucket{
		{Key: "2025-06-07", Items: []ScheduleEvent{{ID: 1, Time: "01:00", Title: "Late Lounge", Recurrence: "FREQ=DAILY;COUNT=5"}}},
	}

	out, err := ExpandRecurring(raw, "2025-06-01", "2025-06-08", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-07", "2025-06-08", "2025-06-09"}, keys(out))

	daily := Daily(out, StatusUpcoming, time.Now())
	assert.Equal(t, []string{"2025-06-06", "2025-06-07", "2025-06-08"}, keys(daily))
}

func TestExpandRecurring_InvalidRuleKeepsEvent(t *testing.T) {
	raw := []DailyBucket{
		{Key: "2025-06-02", Items: []ScheduleEvent{{ID: 3, Time: "10:00", Title: "Trivia", Recurrence: "FREQ=SOMETIMES"}}},
	}

	out, err := ExpandRecurring(raw, "2025-06-01", "2025-06-08", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidRule)
	require.Len(t, out, 1)
	assert.Equal(t, "Trivia", out[0].Items[0].Title)
}

func TestExpandRecurring_BadRange(t *testing.T) {
	_, err := ExpandRecurring(nil, "June", "2025-06-08", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidEventAt)
}

func TestICS(t *testing.T) {
	buckets := Daily([]DailyBucket{
		{Key: "2025-06-01", Items: []ScheduleEvent{
			{ID: 1, Time: "21:00", Title: "Neon Party", Venue: "Pool Deck", Talent: []TalentRef{{Name: "DJ Sam"}}},
		}},
		{Key: "2025-06-02", Items: []ScheduleEvent{{ID: 2, Time: "01:00", Title: "After Hours"}}},
	}, StatusUpcoming, time.Now())

	out := ICS(buckets, CalendarOptions{
		Name:     "Caribbean Sailing",
		Slug:     "caribbean-2025",
		Location: time.UTC,
		Stamp:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	assert.Equal(t, "Neon Party", events[0].GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Pool Deck", events[0].GetProperty(ical.ComponentPropertyLocation).Value)

	// The after-midnight show is listed under June 1st but happens on June 2nd.
	start, err := events[1].GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC), start.UTC())
	assert.Contains(t, out, "caribbean-2025-2-2025-06-02-0100@trip-guide")
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule("FREQ=DAILY;COUNT=3"))
	assert.NoError(t, ValidateRule("RRULE:FREQ=WEEKLY;BYDAY=MO,WE"))
	assert.ErrorIs(t, ValidateRule("every day"), ErrInvalidRule)
}
