package client

import "context"

func (c *Client) Updates(ctx context.Context, tripID int64) ([]TripUpdate, error) {
	var out []TripUpdate
	if err := c.get(ctx, idPath("/api/trips/%d/updates", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(u TripUpdate) int64 { return u.ID }, "update"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUpdate(ctx context.Context, tripID int64, in TripUpdate) (*TripUpdate, error) {
	var out TripUpdate
	if err := c.post(ctx, idPath("/api/trips/%d/updates", tripID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUpdate(ctx context.Context, id int64, in TripUpdate) (*TripUpdate, error) {
	var out TripUpdate
	if err := c.put(ctx, idPath("/api/updates/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUpdate(ctx context.Context, id int64) error {
	return c.del(ctx, idPath("/api/updates/%d", id))
}

// ReorderUpdates sends the full ordering of a trip's updates.
func (c *Client) ReorderUpdates(ctx context.Context, tripID int64, order []UpdateOrder) error {
	body := struct {
		Updates []UpdateOrder `json:"updates"`
	}{Updates: order}
	return c.put(ctx, idPath("/api/trips/%d/updates/reorder", tripID), body, nil)
}
