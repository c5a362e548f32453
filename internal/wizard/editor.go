package wizard

import (
	"context"

	"go.uber.org/zap"

	"trip-guide/internal/client"
)

// Editor runs wizard forms against the CMS and audits every write.
type Editor struct {
	cms      CMS
	audit    *AuditLog
	logger   *zap.Logger
	recorder RevertRecorder
}

func NewEditor(cms CMS, audit *AuditLog, logger *zap.Logger, recorder RevertRecorder) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if audit == nil {
		audit = NewAuditLog(nil, logger)
	}
	return &Editor{cms: cms, audit: audit, logger: logger.Named("wizard"), recorder: recorder}
}

func actionFor(isNew bool) string {
	return pick(isNew, "create", "update")
}

func (e *Editor) SaveEvent(ctx context.Context, actor string, tripID int64, f EventForm) (*client.Event, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms, tripID)
	if err == nil {
		e.audit.Record(ctx, actor, "event", actionFor(f.ID == 0), out.ID)
	}
	return out, toast, err
}

func (e *Editor) DeleteEvent(ctx context.Context, actor string, tripID, eventID int64) (Toast, error) {
	toast, err := remove(ctx, "Event deleted", "Failed to delete event", func(ctx context.Context) error {
		return e.cms.DeleteEvent(ctx, tripID, eventID)
	})
	if err == nil {
		e.audit.Record(ctx, actor, "event", "delete", eventID)
	}
	return toast, err
}

func (e *Editor) SaveUpdate(ctx context.Context, actor string, tripID int64, f UpdateForm) (*client.TripUpdate, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms, tripID)
	if err == nil {
		e.audit.Record(ctx, actor, "update", actionFor(f.ID == 0), out.ID)
	}
	return out, toast, err
}

// Board returns an updates board for the trip, already loaded.
func (e *Editor) Board(ctx context.Context, tripID int64) (*UpdatesBoard, error) {
	b := NewUpdatesBoard(tripID, e.cms, e.logger, e.recorder)
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// MoveUpdate reorders one update. The returned list is what the editor
// should now see: the new order, or the CMS order after a revert.
func (e *Editor) MoveUpdate(ctx context.Context, actor string, tripID int64, from, to int) ([]client.TripUpdate, Toast, error) {
	b, err := e.Board(ctx, tripID)
	if err != nil {
		return nil, errorToast("Failed to load updates"), err
	}
	if err := b.Move(ctx, from, to); err != nil {
		return b.Items(), errorToast("Failed to reorder updates"), err
	}
	e.audit.Record(ctx, actor, "update", "reorder", tripID)
	return b.Items(), successToast("Updates reordered"), nil
}

func (e *Editor) DeleteUpdate(ctx context.Context, actor string, tripID, updateID int64) ([]client.TripUpdate, Toast, error) {
	b, err := e.Board(ctx, tripID)
	if err != nil {
		return nil, errorToast("Failed to load updates"), err
	}
	if err := b.Delete(ctx, updateID); err != nil {
		return b.Items(), errorToast("Failed to delete update"), err
	}
	e.audit.Record(ctx, actor, "update", "delete", updateID)
	return b.Items(), successToast("Update deleted"), nil
}

func (e *Editor) SaveItineraryDay(ctx context.Context, actor string, tripID int64, f ItineraryDayForm) (*client.ItineraryDay, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms, tripID)
	if err == nil {
		e.audit.Record(ctx, actor, "itinerary", actionFor(f.ID == 0), out.ID)
	}
	return out, toast, err
}

func (e *Editor) DeleteItineraryDay(ctx context.Context, actor string, tripID, dayID int64) (Toast, error) {
	toast, err := remove(ctx, "Itinerary day removed", "Failed to remove itinerary day", func(ctx context.Context) error {
		return e.cms.DeleteItineraryDay(ctx, tripID, dayID)
	})
	if err == nil {
		e.audit.Record(ctx, actor, "itinerary", "delete", dayID)
	}
	return toast, err
}

func (e *Editor) SavePartyTheme(ctx context.Context, actor string, f PartyThemeForm) (*client.PartyTheme, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms)
	if err == nil {
		e.audit.Record(ctx, actor, "party_theme", actionFor(f.ID == 0), out.ID)
	}
	return out, toast, err
}

func (e *Editor) DeletePartyTheme(ctx context.Context, actor string, id int64) (Toast, error) {
	toast, err := remove(ctx, "Party theme deleted", "Failed to delete party theme", func(ctx context.Context) error {
		return e.cms.DeletePartyTheme(ctx, id)
	})
	if err == nil {
		e.audit.Record(ctx, actor, "party_theme", "delete", id)
	}
	return toast, err
}

func (e *Editor) AddTalent(ctx context.Context, actor string, tripID int64, f TalentForm) (*client.Talent, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms, tripID)
	if err == nil {
		e.audit.Record(ctx, actor, "talent", "create", out.ID)
	}
	return out, toast, err
}

func (e *Editor) RemoveTalent(ctx context.Context, actor string, tripID, talentID int64) (Toast, error) {
	toast, err := remove(ctx, "Talent removed from trip", "Failed to remove talent", func(ctx context.Context) error {
		return e.cms.RemoveTalent(ctx, tripID, talentID)
	})
	if err == nil {
		e.audit.Record(ctx, actor, "talent", "delete", talentID)
	}
	return toast, err
}

func (e *Editor) CreateLocation(ctx context.Context, actor string, f LocationForm) (*client.Location, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms)
	if err == nil {
		e.audit.Record(ctx, actor, "location", "create", out.ID)
	}
	return out, toast, err
}

func (e *Editor) SaveUser(ctx context.Context, actor string, f UserForm) (*client.User, Toast, error) {
	out, toast, err := f.Submit(ctx, e.cms)
	if err == nil {
		e.audit.Record(ctx, actor, "user", actionFor(f.ID == ""), out.ID)
	}
	return out, toast, err
}

func (e *Editor) DeleteUser(ctx context.Context, actor, id string) (Toast, error) {
	toast, err := remove(ctx, "User deleted", "Failed to delete user", func(ctx context.Context) error {
		return e.cms.DeleteUser(ctx, id)
	})
	if err == nil {
		e.audit.Record(ctx, actor, "user", "delete", id)
	}
	return toast, err
}

func (e *Editor) SetUserActive(ctx context.Context, actor, id string, active bool) (*client.User, Toast, error) {
	out, err := e.cms.SetUserActive(ctx, id, active)
	if err != nil {
		return nil, errorToast("Failed to update user status"), err
	}
	e.audit.Record(ctx, actor, "user", pick(active, "activate", "deactivate"), id)
	return out, successToast(pick(active, "User activated", "User deactivated")), nil
}

// SetPropertyVenues replaces the venues offered on a ship or resort.
func (e *Editor) SetPropertyVenues(ctx context.Context, actor string, kind client.PropertyKind, id int64, venueIDs []int64) (Toast, error) {
	if err := e.cms.SetPropertyVenues(ctx, kind, id, venueIDs); err != nil {
		return errorToast("Failed to save venues"), err
	}
	e.audit.Record(ctx, actor, string(kind), "set_venues", id)
	return successToast("Venues saved"), nil
}

// SetPropertyAmenities replaces the amenities offered on a ship or resort.
func (e *Editor) SetPropertyAmenities(ctx context.Context, actor string, kind client.PropertyKind, id int64, amenityIDs []int64) (Toast, error) {
	if err := e.cms.SetPropertyAmenities(ctx, kind, id, amenityIDs); err != nil {
		return errorToast("Failed to save amenities"), err
	}
	e.audit.Record(ctx, actor, string(kind), "set_amenities", id)
	return successToast("Amenities saved"), nil
}
