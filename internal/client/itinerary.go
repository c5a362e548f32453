package client

import "context"

func (c *Client) AdminItinerary(ctx context.Context, tripID int64) ([]ItineraryDay, error) {
	var out []ItineraryDay
	if err := c.get(ctx, idPath("/api/admin/trips/%d/itinerary", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItineraryDay(ctx context.Context, tripID int64, in ItineraryDay) (*ItineraryDay, error) {
	var out ItineraryDay
	if err := c.post(ctx, idPath("/api/admin/trips/%d/itinerary", tripID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItineraryDay(ctx context.Context, tripID, dayID int64, in ItineraryDay) (*ItineraryDay, error) {
	var out ItineraryDay
	if err := c.put(ctx, idPath("/api/admin/trips/%d/itinerary/%d", tripID, dayID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItineraryDay(ctx context.Context, tripID, dayID int64) error {
	return c.del(ctx, idPath("/api/admin/trips/%d/itinerary/%d", tripID, dayID))
}
