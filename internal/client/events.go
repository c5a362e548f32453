package client

import "context"

func (c *Client) EventTypes(ctx context.Context) ([]EventType, error) {
	var out []EventType
	if err := c.get(ctx, "/api/admin/event-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminEvents(ctx context.Context, tripID int64) ([]Event, error) {
	var out []Event
	if err := c.get(ctx, idPath("/api/admin/trips/%d/events", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEvent(ctx context.Context, tripID int64, in Event) (*Event, error) {
	var out Event
	if err := c.post(ctx, idPath("/api/admin/trips/%d/events", tripID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, tripID, eventID int64, in Event) (*Event, error) {
	var out Event
	if err := c.put(ctx, idPath("/api/admin/trips/%d/events/%d", tripID, eventID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, tripID, eventID int64) error {
	return c.del(ctx, idPath("/api/admin/trips/%d/events/%d", tripID, eventID))
}

func (c *Client) PartyThemes(ctx context.Context) ([]PartyTheme, error) {
	var out []PartyTheme
	if err := c.get(ctx, "/api/admin/party-themes", nil, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(p PartyTheme) int64 { return p.ID }, "party theme"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePartyTheme(ctx context.Context, in PartyTheme) (*PartyTheme, error) {
	var out PartyTheme
	if err := c.post(ctx, "/api/admin/party-themes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePartyTheme(ctx context.Context, id int64, in PartyTheme) (*PartyTheme, error) {
	var out PartyTheme
	if err := c.put(ctx, idPath("/api/admin/party-themes/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePartyTheme(ctx context.Context, id int64) error {
	return c.del(ctx, idPath("/api/admin/party-themes/%d", id))
}
