package client

import (
	"context"
	"net/url"
)

func (c *Client) LocationTypes(ctx context.Context) ([]LocationType, error) {
	var out []LocationType
	if err := c.get(ctx, "/api/admin/lookup-tables/location-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Locations lists locations, optionally filtered by a name search.
func (c *Client) Locations(ctx context.Context, search string) ([]Location, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	var out []Location
	if err := c.get(ctx, "/api/locations", q, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(l Location) int64 { return l.ID }, "location"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLocation(ctx context.Context, in Location) (*Location, error) {
	var out Location
	if err := c.post(ctx, "/api/locations", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VenueTypes(ctx context.Context) ([]VenueType, error) {
	var out []VenueType
	if err := c.get(ctx, "/api/venue-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Venues(ctx context.Context) ([]Venue, error) {
	var out []Venue
	if err := c.get(ctx, "/api/venues", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Amenities(ctx context.Context) ([]Amenity, error) {
	var out []Amenity
	if err := c.get(ctx, "/api/amenities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ships(ctx context.Context) ([]Ship, error) {
	var out []Ship
	if err := c.get(ctx, "/api/ships", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Resorts(ctx context.Context) ([]Resort, error) {
	var out []Resort
	if err := c.get(ctx, "/api/resorts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PropertyKind selects the owner of a venue or amenity set.
type PropertyKind string

const (
	PropertyShip   PropertyKind = "ships"
	PropertyResort PropertyKind = "resorts"
)

func (c *Client) PropertyVenues(ctx context.Context, kind PropertyKind, id int64) ([]Venue, error) {
	var out []Venue
	if err := c.get(ctx, "/api/"+string(kind)+idPath("/%d/venues", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPropertyVenues replaces the venue set of a ship or resort.
func (c *Client) SetPropertyVenues(ctx context.Context, kind PropertyKind, id int64, venueIDs []int64) error {
	body := struct {
		VenueIDs []int64 `json:"venue_ids"`
	}{VenueIDs: nonNil(venueIDs)}
	return c.put(ctx, "/api/"+string(kind)+idPath("/%d/venues", id), body, nil)
}

func (c *Client) PropertyAmenities(ctx context.Context, kind PropertyKind, id int64) ([]Amenity, error) {
	var out []Amenity
	if err := c.get(ctx, "/api/"+string(kind)+idPath("/%d/amenities", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPropertyAmenities replaces the amenity set of a ship or resort.
func (c *Client) SetPropertyAmenities(ctx context.Context, kind PropertyKind, id int64, amenityIDs []int64) error {
	body := struct {
		AmenityIDs []int64 `json:"amenity_ids"`
	}{AmenityIDs: nonNil(amenityIDs)}
	return c.put(ctx, "/api/"+string(kind)+idPath("/%d/amenities", id), body, nil)
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
