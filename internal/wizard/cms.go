package wizard

import (
	"context"

	"trip-guide/internal/client"
)

type EventWriter interface {
	CreateEvent(ctx context.Context, tripID int64, in client.Event) (*client.Event, error)
	UpdateEvent(ctx context.Context, tripID, eventID int64, in client.Event) (*client.Event, error)
	DeleteEvent(ctx context.Context, tripID, eventID int64) error
}

type UpdateWriter interface {
	CreateUpdate(ctx context.Context, tripID int64, in client.TripUpdate) (*client.TripUpdate, error)
	UpdateUpdate(ctx context.Context, id int64, in client.TripUpdate) (*client.TripUpdate, error)
}

// UpdatesSource is what an UpdatesBoard reads from and writes to.
type UpdatesSource interface {
	Updates(ctx context.Context, tripID int64) ([]client.TripUpdate, error)
	ReorderUpdates(ctx context.Context, tripID int64, order []client.UpdateOrder) error
	DeleteUpdate(ctx context.Context, id int64) error
}

type ItineraryWriter interface {
	CreateItineraryDay(ctx context.Context, tripID int64, in client.ItineraryDay) (*client.ItineraryDay, error)
	UpdateItineraryDay(ctx context.Context, tripID, dayID int64, in client.ItineraryDay) (*client.ItineraryDay, error)
	DeleteItineraryDay(ctx context.Context, tripID, dayID int64) error
}

type PartyThemeWriter interface {
	CreatePartyTheme(ctx context.Context, in client.PartyTheme) (*client.PartyTheme, error)
	UpdatePartyTheme(ctx context.Context, id int64, in client.PartyTheme) (*client.PartyTheme, error)
	DeletePartyTheme(ctx context.Context, id int64) error
}

type TalentWriter interface {
	AddTalent(ctx context.Context, tripID int64, in client.Talent) (*client.Talent, error)
	RemoveTalent(ctx context.Context, tripID, talentID int64) error
}

type LocationWriter interface {
	CreateLocation(ctx context.Context, in client.Location) (*client.Location, error)
}

type UserWriter interface {
	CreateUser(ctx context.Context, in client.UserInput) (*client.User, error)
	UpdateUser(ctx context.Context, id string, in client.UserInput) (*client.User, error)
	DeleteUser(ctx context.Context, id string) error
	SetUserActive(ctx context.Context, id string, active bool) (*client.User, error)
}

// PropertyWriter replaces the venue and amenity sets of a ship or resort.
type PropertyWriter interface {
	SetPropertyVenues(ctx context.Context, kind client.PropertyKind, id int64, venueIDs []int64) error
	SetPropertyAmenities(ctx context.Context, kind client.PropertyKind, id int64, amenityIDs []int64) error
}

// CMS is every write the wizard performs. *client.Client implements it.
type CMS interface {
	EventWriter
	UpdateWriter
	UpdatesSource
	ItineraryWriter
	PartyThemeWriter
	TalentWriter
	LocationWriter
	UserWriter
	PropertyWriter
}

var _ CMS = (*client.Client)(nil)
