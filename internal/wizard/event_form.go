package wizard

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"trip-guide/internal/client"
)

// EventForm backs the event modal.
type EventForm struct {
	ID           int64   `json:"id,omitempty"`
	Date         string  `json:"date" validate:"date"`
	Time         string  `json:"time" validate:"clock"`
	Title        string  `json:"title" validate:"notblank,max=200"`
	Type         string  `json:"type" validate:"notblank"`
	VenueID      *int64  `json:"venue_id,omitempty"`
	VenueName    string  `json:"venue_name,omitempty"`
	PartyThemeID *int64  `json:"party_theme_id,omitempty"`
	TalentIDs    []int64 `json:"talent_ids,omitempty"`
	Description  string  `json:"description,omitempty"`
	Recurrence   string  `json:"recurrence,omitempty" validate:"omitempty,rrule"`
}

func FromEvent(e client.Event) EventForm {
	return EventForm{
		ID:           e.ID,
		Date:         e.Date,
		Time:         e.Time,
		Title:        e.Title,
		Type:         e.Type,
		VenueID:      e.VenueID,
		VenueName:    e.VenueName,
		PartyThemeID: e.PartyThemeID,
		TalentIDs:    append([]int64(nil), e.TalentIDs...),
		Description:  e.Description,
		Recurrence:   e.Recurrence,
	}
}

var eventMessages = messages{
	"title.notblank": "Title is required",
	"date":           "Date must be YYYY-MM-DD",
	"time":           "Time must be HH:MM",
	"type":           "Event type is required",
	"party_theme_id": "Parties need a theme",
	"recurrence":     "Recurrence must be a valid RRULE",
}

func (f EventForm) Validate() error {
	return check(f, eventMessages)
}

func eventRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(EventForm)
	if strings.EqualFold(f.Type, "party") && f.PartyThemeID == nil {
		sl.ReportError(f.PartyThemeID, "party_theme_id", "PartyThemeID", "party_theme", "")
	}
}

func (f EventForm) toEvent(tripID int64) client.Event {
	return client.Event{
		ID:           f.ID,
		TripID:       tripID,
		Date:         f.Date,
		Time:         f.Time,
		Title:        strings.TrimSpace(f.Title),
		Type:         f.Type,
		VenueID:      f.VenueID,
		VenueName:    f.VenueName,
		PartyThemeID: f.PartyThemeID,
		TalentIDs:    f.TalentIDs,
		Description:  f.Description,
		Recurrence:   f.Recurrence,
	}
}

// Submit creates the event when ID is zero and updates it otherwise.
func (f EventForm) Submit(ctx context.Context, w EventWriter, tripID int64) (*client.Event, Toast, error) {
	isNew := f.ID == 0
	return submit(ctx, f,
		pick(isNew, "Event created successfully", "Event updated successfully"),
		pick(isNew, "Failed to create event", "Failed to update event"),
		func(ctx context.Context) (*client.Event, error) {
			if isNew {
				return w.CreateEvent(ctx, tripID, f.toEvent(tripID))
			}
			return w.UpdateEvent(ctx, tripID, f.ID, f.toEvent(tripID))
		})
}
