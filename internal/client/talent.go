package client

import "context"

func (c *Client) AdminTalent(ctx context.Context, tripID int64) ([]Talent, error) {
	var out []Talent
	if err := c.get(ctx, idPath("/api/admin/trips/%d/talent", tripID), nil, &out); err != nil {
		return nil, err
	}
	if err := requireIDs(out, func(t Talent) int64 { return t.ID }, "talent"); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTalent creates a talent profile and attaches it to the trip.
func (c *Client) AddTalent(ctx context.Context, tripID int64, in Talent) (*Talent, error) {
	var out Talent
	if err := c.post(ctx, idPath("/api/admin/trips/%d/talent", tripID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveTalent(ctx context.Context, tripID, talentID int64) error {
	return c.del(ctx, idPath("/api/admin/trips/%d/talent/%d", tripID, talentID))
}
