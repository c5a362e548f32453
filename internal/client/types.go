package client

import (
	"fmt"
	"regexp"
	"time"

	"trip-guide/internal/util"
)

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-4]):[0-5]\d$`)

// IsClock reports whether s is an HH:MM 24-hour time.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

type Trip struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	TripType     string `json:"trip_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status,omitempty"`
	HeroImageURL string `json:"hero_image_url,omitempty"`
	Description  string `json:"description,omitempty"`
	ShipID       *int64 `json:"ship_id,omitempty"`
	ResortID     *int64 `json:"resort_id,omitempty"`
}

func (t Trip) validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("trip without id")
	}
	if err := util.ValidateDateRange(t.StartDate, t.EndDate); err != nil {
		return fmt.Errorf("trip %d: %w", t.ID, err)
	}
	return nil
}

type ItineraryDay struct {
	ID               int64  `json:"id"`
	TripID           int64  `json:"trip_id"`
	Date             string `json:"date"`
	DayNumber        int    `json:"day_number"`
	LocationID       *int64 `json:"location_id,omitempty"`
	LocationName     string `json:"location_name,omitempty"`
	LocationType     string `json:"location_type,omitempty"`
	ArrivalTime      string `json:"arrival_time,omitempty"`
	DepartureTime    string `json:"departure_time,omitempty"`
	AllAboardTime    string `json:"all_aboard_time,omitempty"`
	Description      string `json:"description,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	LocationImageURL string `json:"location_image_url,omitempty"`
	OrderIndex       int    `json:"order_index"`
}

func (d ItineraryDay) validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("itinerary day without id")
	}
	if !util.IsDate(d.Date) {
		return fmt.Errorf("itinerary day %d: malformed date %q", d.ID, d.Date)
	}
	for _, t := range []string{d.ArrivalTime, d.DepartureTime, d.AllAboardTime} {
		if t != "" && !IsClock(t) {
			return fmt.Errorf("itinerary day %d: malformed time %q", d.ID, t)
		}
	}
	return nil
}

type Event struct {
	ID           int64   `json:"id"`
	TripID       int64   `json:"trip_id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	VenueID      *int64  `json:"venue_id,omitempty"`
	VenueName    string  `json:"venue_name,omitempty"`
	PartyThemeID *int64  `json:"party_theme_id,omitempty"`
	TalentIDs    []int64 `json:"talent_ids,omitempty"`
	Description  string  `json:"description,omitempty"`
	Recurrence   string  `json:"recurrence,omitempty"`
}

func (e Event) validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("event without id")
	}
	if !util.IsDate(e.Date) {
		return fmt.Errorf("event %d: malformed date %q", e.ID, e.Date)
	}
	return nil
}

type EventType struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type PartyTheme struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	ShortDescription      string `json:"short_description,omitempty"`
	LongDescription       string `json:"long_description,omitempty"`
	CostumeIdeas          string `json:"costume_ideas,omitempty"`
	ImageURL              string `json:"image_url,omitempty"`
	AmazonShoppingListURL string `json:"amazon_shopping_list_url,omitempty"`
}

type Talent struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Bio             string            `json:"bio,omitempty"`
	KnownFor        string            `json:"known_for,omitempty"`
	ProfileImageURL string            `json:"profile_image_url,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
}

type TripUpdate struct {
	ID             int64     `json:"id"`
	TripID         int64     `json:"trip_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	UpdateType     string    `json:"update_type,omitempty"`
	OrderIndex     int       `json:"order_index"`
	ShowOnHomepage bool      `json:"show_on_homepage"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

// UpdateOrder is one entry of the reorder request body.
type UpdateOrder struct {
	ID         int64 `json:"id"`
	OrderIndex int   `json:"order_index"`
}

type InfoSection struct {
	ID         int64  `json:"id"`
	TripID     int64  `json:"trip_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
}

type FAQ struct {
	ID         int64  `json:"id"`
	TripID     int64  `json:"trip_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	OrderIndex int    `json:"order_index"`
}

type Location struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Country        string   `json:"country,omitempty"`
	LocationTypeID *int64   `json:"location_type_id,omitempty"`
	Description    string   `json:"description,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

type LocationType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
}

// UserInput is the create/update body for users. Password is only sent when set.
type UserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
	IsActive bool   `json:"is_active"`
}

type VenueType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Venue struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	VenueTypeID int64  `json:"venue_type_id"`
	Description string `json:"description,omitempty"`
}

type Amenity struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Ship struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CruiseLine string `json:"cruise_line,omitempty"`
	Capacity   int    `json:"capacity,omitempty"`
}

type Resort struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LocationID *int64 `json:"location_id,omitempty"`
}

// requireIDs rejects list payloads containing entries without an id.
func requireIDs[T any](items []T, id func(T) int64, kind string) error {
	for i, it := range items {
		if id(it) <= 0 {
			return fmt.Errorf("%w: %s at index %d has no id", ErrInvalidResponse, kind, i)
		}
	}
	return nil
}

// validateAll runs each item's validate method.
func validateAll[T interface{ validate() error }](items []T) error {
	for _, it := range items {
		if err := it.validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}
