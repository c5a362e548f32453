package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-guide/internal/client"
	"trip-guide/internal/wizard"
)

const fixtureYAML = `
trip_id: 7
locations:
  - name: Mykonos
    country: Greece
party_themes:
  - name: White Party
    short_description: All white everything
itinerary:
  - date: "2025-06-10"
    type: embarkation
    location: Athens
    departure: "17:00"
  - date: "2025-06-11"
    type: port
    location: Mykonos
    arrival: "08:00"
    departure: "23:00"
  - date: "2025-06-12"
    type: sea_day
talent:
  - name: DJ Nova
    category: DJ
events:
  - date: "2025-06-11"
    time: "22:00"
    title: White Party
    type: party
    party_theme: White Party
    talent: [DJ Nova]
  - date: "2025-06-12"
    time: "09:00"
    title: Yoga
    type: fitness
    recurrence: "FREQ=DAILY;COUNT=3"
updates:
  - title: Boarding opens at noon
    type: itinerary_change
`

type recordingWriter struct {
	nextID int64
	calls  []string
	days   []wizard.ItineraryDayForm
	events []wizard.EventForm
	failOn string
}

func (w *recordingWriter) id(call string) (int64, error) {
	w.calls = append(w.calls, call)
	if call == w.failOn {
		return 0, &client.APIError{Status: 409, Code: "CONFLICT", Message: "already exists"}
	}
	w.nextID++
	return w.nextID * 100, nil
}

func (w *recordingWriter) CreateLocation(_ context.Context, actor string, f wizard.LocationForm) (*client.Location, wizard.Toast, error) {
	id, err := w.id("location")
	if err != nil {
		return nil, wizard.Toast{}, err
	}
	return &client.Location{ID: id, Name: f.Name}, wizard.Toast{}, nil
}

func (w *recordingWriter) SavePartyTheme(_ context.Context, actor string, f wizard.PartyThemeForm) (*client.PartyTheme, wizard.Toast, error) {
	id, err := w.id("theme")
	if err != nil {
		return nil, wizard.Toast{}, err
	}
	return &client.PartyTheme{ID: id, Name: f.Name}, wizard.Toast{}, nil
}

func (w *recordingWriter) SaveItineraryDay(_ context.Context, actor string, tripID int64, f wizard.ItineraryDayForm) (*client.ItineraryDay, wizard.Toast, error) {
	id, err := w.id("day")
	if err != nil {
		return nil, wizard.Toast{}, err
	}
	w.days = append(w.days, f)
	return &client.ItineraryDay{ID: id, TripID: tripID, Date: f.Date}, wizard.Toast{}, nil
}

func (w *recordingWriter) AddTalent(_ context.Context, actor string, tripID int64, f wizard.TalentForm) (*client.Talent, wizard.Toast, error) {
	id, err := w.id("talent")
	if err != nil {
		return nil, wizard.Toast{}, err
	}
	return &client.Talent{ID: id, Name: f.Name}, wizard.Toast{}, nil
}

func (w *recordingWriter) SaveEvent(_ context.Context, actor string, tripID int64, f wizard.EventForm) (*client.Event, wizard.Toast, error) {
	id, err := w.id("event")
	if err != nil {
		return nil, wizard.Toast{}, err
	}
	w.events = append(w.events, f)
	return &client.Event{ID: id, TripID: tripID, Date: f.Date}, wizard.Toast{}, nil
}

func (w *recordingWriter) SaveUpdate(_ context.Context, actor string, tripID int64, f wizard.UpdateForm) (*client.TripUpdate, wizard.Toast, error) {
	id, err := w.id("update")
	if err != nil {
		return nil, wizard.Toast{}, err
	}
	return &client.TripUpdate{ID: id, TripID: tripID, Title: f.Title}, wizard.Toast{}, nil
}

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.TripID)
	assert.Len(t, f.Itinerary, 3)
	assert.Equal(t, []string{"DJ Nova"}, f.Events[0].Talent)
	require.NoError(t, f.Validate())
}

func TestParseRejects(t *testing.T) {
	_, err := Parse(strings.NewReader("locations: []\n"))
	assert.ErrorIs(t, err, ErrNoTrip)

	_, err = Parse(strings.NewReader("trip_id: 1\nships: []\n"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	f := &Fixture{
		TripID:    1,
		Itinerary: []Day{{Date: "June 1", Type: "port", Location: "Rhodes"}},
		Events: []Event{
			{Date: "2025-06-01", Time: "10:00", Title: "Bingo", Type: "game", Talent: []string{"Nobody"}},
			{Date: "2025-06-01", Time: "25:00", Title: "Late", Type: "show"},
		},
		Updates: []Update{{Title: ""}},
	}
	err := f.Validate()
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnknownReference)
	assert.ErrorIs(t, err, wizard.ErrValidation)

	var item *ItemError
	require.True(t, errors.As(err, &item))
	assert.Equal(t, "itinerary", item.Section)
	assert.Contains(t, err.Error(), "events[0]")
	assert.Contains(t, err.Error(), "events[1]")
	assert.Contains(t, err.Error(), "updates[0]")
}

func TestRunResolvesNames(t *testing.T) {
	f, err := Parse(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	w := &recordingWriter{}
	sum, err := Run(context.Background(), w, f, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Locations: 1, PartyThemes: 1, Days: 3, Talent: 1, Events: 2, Updates: 1}, sum)
	assert.Equal(t, []string{"location", "theme", "day", "day", "day", "talent", "event", "event", "update"}, w.calls)

	require.Len(t, w.days, 3)
	assert.Nil(t, w.days[0].LocationID, "Athens is not in the fixture")
	assert.Equal(t, "Athens", w.days[0].LocationName)
	require.NotNil(t, w.days[1].LocationID)
	assert.Equal(t, int64(100), *w.days[1].LocationID)
	assert.Equal(t, 2, w.days[2].OrderIndex)

	require.Len(t, w.events, 2)
	require.NotNil(t, w.events[0].PartyThemeID)
	assert.Equal(t, int64(200), *w.events[0].PartyThemeID)
	assert.Equal(t, []int64{600}, w.events[0].TalentIDs)
	assert.Nil(t, w.events[1].PartyThemeID)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	f, err := Parse(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	w := &recordingWriter{failOn: "talent"}
	sum, err := Run(context.Background(), w, f, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrConflict)

	var item *ItemError
	require.True(t, errors.As(err, &item))
	assert.Equal(t, "talent", item.Section)
	assert.Equal(t, Summary{Locations: 1, PartyThemes: 1, Days: 3}, sum)
	assert.NotContains(t, w.calls, "event")
}

func TestEditorSatisfiesWriter(t *testing.T) {
	var w Writer = wizard.NewEditor(nil, nil, nil, nil)
	assert.NotNil(t, w)
}
