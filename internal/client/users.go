package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.get(ctx, "/api/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.post(ctx, "/api/admin/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	var out User
	if err := c.put(ctx, "/api/admin/users/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.del(ctx, "/api/admin/users/"+url.PathEscape(id))
}

// SetUserActive toggles a user's account status.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) (*User, error) {
	body := struct {
		IsActive bool `json:"is_active"`
	}{IsActive: active}
	var out User
	if err := c.do(ctx, http.MethodPatch, "/api/admin/users/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
