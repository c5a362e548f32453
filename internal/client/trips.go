package client

import (
	"context"
	"net/url"
)

// Trips lists every published trip.
func (c *Client) Trips(ctx context.Context) ([]Trip, error) {
	var out []Trip
	if err := c.get(ctx, "/api/trips", nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TripBySlug(ctx context.Context, slug string) (*Trip, error) {
	var out Trip
	if err := c.get(ctx, "/api/trips/slug/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll([]Trip{out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminTrip fetches a trip including unpublished fields.
func (c *Client) AdminTrip(ctx context.Context, tripID int64) (*Trip, error) {
	var out Trip
	if err := c.get(ctx, idPath("/api/admin/trips/%d", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll([]Trip{out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Itinerary(ctx context.Context, tripID int64) ([]ItineraryDay, error) {
	var out []ItineraryDay
	if err := c.get(ctx, idPath("/api/trips/%d/itinerary", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Events(ctx context.Context, tripID int64) ([]Event, error) {
	var out []Event
	if err := c.get(ctx, idPath("/api/trips/%d/events", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TripTalent(ctx context.Context, tripID int64) ([]Talent, error) {
	var out []Talent
	if err := c.get(ctx, idPath("/api/trips/%d/talent", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(t Talent) int64 { return t.ID }, "talent"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) InfoSections(ctx context.Context, tripID int64) ([]InfoSection, error) {
	var out []InfoSection
	if err := c.get(ctx, idPath("/api/trips/%d/info-sections", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(s InfoSection) int64 { return s.ID }, "info section"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FAQs(ctx context.Context, tripID int64) ([]FAQ, error) {
	var out []FAQ
	if err := c.get(ctx, idPath("/api/trips/%d/faqs", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(f FAQ) int64 { return f.ID }, "faq"); err != nil {
		return nil, err
	}
	return out, nil
}
