package importer

import (
	"context"

	"go.uber.org/zap"

	"trip-guide/internal/client"
	"trip-guide/internal/wizard"
)

// Actor is recorded in the audit log for imported content.
const Actor = "importer"

// Writer is the part of the wizard editor an import drives.
type Writer interface {
	CreateLocation(ctx context.Context, actor string, f wizard.LocationForm) (*client.Location, wizard.Toast, error)
	SavePartyTheme(ctx context.Context, actor string, f wizard.PartyThemeForm) (*client.PartyTheme, wizard.Toast, error)
	SaveItineraryDay(ctx context.Context, actor string, tripID int64, f wizard.ItineraryDayForm) (*client.ItineraryDay, wizard.Toast, error)
	AddTalent(ctx context.Context, actor string, tripID int64, f wizard.TalentForm) (*client.Talent, wizard.Toast, error)
	SaveEvent(ctx context.Context, actor string, tripID int64, f wizard.EventForm) (*client.Event, wizard.Toast, error)
	SaveUpdate(ctx context.Context, actor string, tripID int64, f wizard.UpdateForm) (*client.TripUpdate, wizard.Toast, error)
}

var _ Writer = (*wizard.Editor)(nil)

// Summary counts what an import created.
type Summary struct {
	Locations   int
	PartyThemes int
	Days        int
	Talent      int
	Events      int
	Updates     int
}

// Run creates the fixture's content in dependency order and stops at the
// first failure. Content created before the failure stays in the CMS.
func Run(ctx context.Context, w Writer, f *Fixture, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var sum Summary
	locations := map[string]int64{}
	themes := map[string]int64{}
	talent := map[string]int64{}

	for i, l := range f.Locations {
		out, _, err := w.CreateLocation(ctx, Actor, l.form())
		if err != nil {
			return sum, &ItemError{Section: "locations", Index: i, Err: err}
		}
		locations[l.Name] = out.ID
		sum.Locations++
	}
	for i, p := range f.PartyThemes {
		out, _, err := w.SavePartyTheme(ctx, Actor, p.form())
		if err != nil {
			return sum, &ItemError{Section: "party_themes", Index: i, Err: err}
		}
		themes[p.Name] = out.ID
		sum.PartyThemes++
	}
	for i, d := range f.Itinerary {
		if _, _, err := w.SaveItineraryDay(ctx, Actor, f.TripID, d.form(i, locations)); err != nil {
			return sum, &ItemError{Section: "itinerary", Index: i, Err: err}
		}
		sum.Days++
	}
	for i, t := range f.Talent {
		out, _, err := w.AddTalent(ctx, Actor, f.TripID, t.form())
		if err != nil {
			return sum, &ItemError{Section: "talent", Index: i, Err: err}
		}
		talent[t.Name] = out.ID
		sum.Talent++
	}
	for i, e := range f.Events {
		form, err := e.form(themes, talent)
		if err == nil {
			_, _, err = w.SaveEvent(ctx, Actor, f.TripID, form)
		}
		if err != nil {
			return sum, &ItemError{Section: "events", Index: i, Err: err}
		}
		sum.Events++
	}
	for i, u := range f.Updates {
		if _, _, err := w.SaveUpdate(ctx, Actor, f.TripID, u.form()); err != nil {
			return sum, &ItemError{Section: "updates", Index: i, Err: err}
		}
		sum.Updates++
	}

	logger.Info("fixture imported",
		zap.Int64("trip_id", f.TripID),
		zap.Int("locations", sum.Locations),
		zap.Int("party_themes", sum.PartyThemes),
		zap.Int("days", sum.Days),
		zap.Int("talent", sum.Talent),
		zap.Int("events", sum.Events),
		zap.Int("updates", sum.Updates))
	return sum, nil
}
