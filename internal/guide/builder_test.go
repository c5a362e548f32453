package guide

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-guide/internal/client"
	"trip-guide/internal/models"
	"trip-guide/internal/schedule"
)

func ptr[T any](v T) *T { return &v }

type fakeSource struct {
	trip   client.Trip
	events []client.Event
	down   atomic.Bool
	failOn string
	calls  atomic.Int32
}

func (f *fakeSource) err(op string) error {
	f.calls.Add(1)
	if f.down.Load() {
		return client.ErrUnavailable
	}
	if f.failOn == op {
		return &client.APIError{Status: 404, Message: op + " missing"}
	}
	return nil
}

func (f *fakeSource) TripBySlug(_ context.Context, slug string) (*client.Trip, error) {
	if err := f.err("trip"); err != nil {
		return nil, err
	}
	if slug != f.trip.Slug {
		return nil, &client.APIError{Status: 404}
	}
	t := f.trip
	return &t, nil
}

func (f *fakeSource) Itinerary(context.Context, int64) ([]client.ItineraryDay, error) {
	if err := f.err("itinerary"); err != nil {
		return nil, err
	}
	return []client.ItineraryDay{
		{ID: 2, Date: "2025-06-11", LocationType: "port", LocationName: "Mykonos", LocationImageURL: "mykonos.jpg"},
		{ID: 1, Date: "2025-06-10", LocationType: "embarkation", LocationName: "Athens"},
		{ID: 3, Date: "2025-06-09", LocationType: "port", LocationName: "Athens"},
	}, nil
}

func (f *fakeSource) Events(context.Context, int64) ([]client.Event, error) {
	if err := f.err("events"); err != nil {
		return nil, err
	}
	return f.events, nil
}

func (f *fakeSource) TripTalent(context.Context, int64) ([]client.Talent, error) {
	if err := f.err("talent"); err != nil {
		return nil, err
	}
	return []client.Talent{
		{ID: 1, Name: "Zed", Category: "DJ"},
		{ID: 2, Name: "Alma", Category: "DJ"},
		{ID: 3, Name: "Bea", Category: "Comedian"},
	}, nil
}

func (f *fakeSource) InfoSections(context.Context, int64) ([]client.InfoSection, error) {
	if err := f.err("info"); err != nil {
		return nil, err
	}
	return []client.InfoSection{{ID: 2, Title: "Dress code", OrderIndex: 2}, {ID: 1, Title: "Boarding", OrderIndex: 1}}, nil
}

func (f *fakeSource) FAQs(context.Context, int64) ([]client.FAQ, error) {
	if err := f.err("faqs"); err != nil {
		return nil, err
	}
	return []client.FAQ{{ID: 1, Question: "Wifi?", Answer: "Yes"}}, nil
}

func (f *fakeSource) PartyThemes(context.Context) ([]client.PartyTheme, error) {
	if err := f.err("themes"); err != nil {
		return nil, err
	}
	return []client.PartyTheme{{ID: 7, Name: "White Party"}, {ID: 8, Name: "Neon"}}, nil
}

type memorySnapshots struct {
	mu    sync.Mutex
	snaps map[string]*models.GuideSnapshot
}

func (m *memorySnapshots) SaveSnapshot(_ context.Context, s *models.GuideSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snaps == nil {
		m.snaps = map[string]*models.GuideSnapshot{}
	}
	cp := *s
	m.snaps[s.Slug] = &cp
	return nil
}

func (m *memorySnapshots) GetSnapshot(_ context.Context, slug string) (*models.GuideSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[slug]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s, nil
}

type countingRecorder struct {
	builds    atomic.Int32
	fallbacks atomic.Int32
}

func (c *countingRecorder) RecordScheduleBuild(float64, int) { c.builds.Add(1) }
func (c *countingRecorder) RecordSnapshotFallback()          { c.fallbacks.Add(1) }

func newFixture(now time.Time) (*fakeSource, *memorySnapshots, *countingRecorder, *Builder) {
	src := &fakeSource{
		trip: client.Trip{ID: 1, Slug: "greek-isles", Name: "Greek Isles", StartDate: "2025-06-10", EndDate: "2025-06-15", HeroImageURL: "hero.jpg"},
		events: []client.Event{
			{ID: 10, Date: "2025-06-10", Time: "22:00", Title: "White Party", Type: "party", PartyThemeID: ptr(int64(7)), TalentIDs: []int64{1, 2}},
			{ID: 11, Date: "2025-06-11", Time: "01:30", Title: "After Hours", Type: "party", PartyThemeID: ptr(int64(8))},
			{ID: 12, Date: "2025-06-10", Time: "13:00", Title: "Sail Away"},
			{ID: 13, Date: "2025-06-11", Time: "15:00", Title: "Pool Games"},
		},
	}
	snaps := &memorySnapshots{}
	rec := &countingRecorder{}
	b := NewBuilder(src, Options{
		Location:    time.UTC,
		DefaultHero: "default.jpg",
		Clock:       func() time.Time { return now },
		Recorder:    rec,
		Snapshots:   snaps,
	})
	return src, snaps, rec, b
}

func TestBuildUpcomingTrip(t *testing.T) {
	_, _, rec, b := newFixture(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	g, err := b.Build(context.Background(), "greek-isles")
	require.NoError(t, err)

	assert.Equal(t, schedule.StatusUpcoming, g.Status)
	assert.Equal(t, "in 1 week", g.StartsIn)
	assert.Equal(t, "Upcoming", g.StatusDisplay.DisplayName)

	require.Len(t, g.Itinerary, 3)
	assert.Equal(t, "Pre-Trip", g.Itinerary[0].DayLabel)
	assert.Equal(t, "Day 1", g.Itinerary[1].DayLabel)
	assert.Equal(t, "mykonos.jpg", g.Itinerary[2].Image)
	assert.Equal(t, []string{"hero.jpg", "mykonos.jpg"}, g.Hero)

	require.Len(t, g.Schedule, 2)
	assert.Equal(t, "2025-06-10", g.Schedule[0].Key)
	var titles []string
	for _, it := range g.Schedule[0].Items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Sail Away", "White Party", "After Hours"}, titles)
	assert.Equal(t, "Zed, Alma", g.Schedule[0].Items[1].Talent)
	assert.Equal(t, "10:00 PM", g.Schedule[0].Items[1].DisplayTime)
	assert.True(t, g.Schedule[0].Items[2].LateNight)

	require.Len(t, g.Parties, 2)
	assert.Equal(t, "White Party", g.Parties[0].Theme.Name)
	assert.Equal(t, "Neon", g.Parties[1].Theme.Name)
	assert.Equal(t, "2025-06-10", g.Parties[1].Date)

	require.Len(t, g.Talent, 2)
	assert.Equal(t, "Comedian", g.Talent[0].Category)
	assert.Equal(t, "Alma", g.Talent[1].Members[0].Name)
	assert.Equal(t, "Boarding", g.Info[0].Title)
	assert.Equal(t, int32(1), rec.builds.Load())
}

func TestBuildCurrentTripHidesElapsedEvents(t *testing.T) {
	_, _, _, b := newFixture(time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))
	g, err := b.Build(context.Background(), "greek-isles")
	require.NoError(t, err)

	assert.Equal(t, schedule.StatusCurrent, g.Status)
	assert.Empty(t, g.StartsIn)
	var titles []string
	for _, d := range g.Schedule {
		for _, it := range d.Items {
			titles = append(titles, it.Title)
		}
	}
	assert.Equal(t, []string{"White Party", "After Hours", "Pool Games"}, titles)
}

func TestBuildFailsOnFirstSectionError(t *testing.T) {
	src, _, _, b := newFixture(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	src.failOn = "faqs"

	_, err := b.Build(context.Background(), "greek-isles")
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, err.Error(), "faqs missing")
}

func TestLoadFallsBackToSnapshot(t *testing.T) {
	src, snaps, rec, b := newFixture(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	fresh, err := b.Load(ctx, "greek-isles")
	require.NoError(t, err)
	require.Contains(t, snaps.snaps, "greek-isles")
	assert.False(t, fresh.Stale)

	src.down.Store(true)
	later := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	b.clock = func() time.Time { return later }

	g, err := b.Load(ctx, "greek-isles")
	require.NoError(t, err)
	assert.True(t, g.Stale)
	assert.Equal(t, "11 hours ago", g.StaleSince)
	assert.Equal(t, int32(1), rec.fallbacks.Load())

	var titles []string
	for _, d := range g.Schedule {
		for _, it := range d.Items {
			titles = append(titles, it.Title)
		}
	}
	assert.Equal(t, []string{"After Hours", "Pool Games"}, titles, "stored schedule is refiltered for the current time")
}

func TestLoadWithoutSnapshotReturnsCMSError(t *testing.T) {
	src, _, _, b := newFixture(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	src.down.Store(true)
	_, err := b.Load(context.Background(), "greek-isles")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestLoadDoesNotMaskNotFound(t *testing.T) {
	_, _, rec, b := newFixture(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	_, err := b.Load(context.Background(), "atlantis")
	assert.True(t, errors.Is(err, client.ErrNotFound))
	assert.Zero(t, rec.fallbacks.Load())
}

func TestScheduleOverride(t *testing.T) {
	_, _, _, b := newFixture(time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))

	days, status, err := b.Schedule(context.Background(), "greek-isles", schedule.StatusPast)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPast, status)
	assert.Equal(t, 4, countItems(days))

	days, status, err = b.Schedule(context.Background(), "greek-isles", "")
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCurrent, status)
	assert.Equal(t, 3, countItems(days))
}

func countItems(days []ScheduleDay) int {
	n := 0
	for _, d := range days {
		n += len(d.Items)
	}
	return n
}

func TestCalendarExportsEverything(t *testing.T) {
	_, _, _, b := newFixture(time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC))
	ics, err := b.Calendar(context.Background(), "greek-isles")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "Greek Isles")
}

func TestRefreshStoresSnapshot(t *testing.T) {
	_, snaps, _, b := newFixture(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	status, err := b.Refresh(context.Background(), "greek-isles")
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusUpcoming, status)
	assert.Equal(t, "upcoming", snaps.snaps["greek-isles"].Status)
}

func TestRawScheduleExpandsRecurrence(t *testing.T) {
	trip := client.Trip{StartDate: "2025-06-10", EndDate: "2025-06-12"}
	raw, err := RawSchedule([]client.Event{
		{ID: 1, Date: "2025-06-10", Time: "07:00", Title: "Yoga", Recurrence: "FREQ=DAILY"},
	}, nil, trip, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 3, schedule.CountEvents(raw))
}

func TestMemosStayBounded(t *testing.T) {
	b := NewBuilder(&fakeSource{}, Options{MaxMemos: 4})

	first := b.memo("trip-0")
	assert.Same(t, first, b.memo("trip-0"))
	for i := 1; i <= 500; i++ {
		b.memo(fmt.Sprintf("trip-%d", i))
		require.LessOrEqual(t, b.memos.Len(), 4)
	}
	assert.NotSame(t, first, b.memo("trip-0"))
}
