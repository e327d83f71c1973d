package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rookgm/storefront/internal/models"
)

// CurrentUser returns profile of the token owner
func (c *Client) CurrentUser(ctx context.Context, token string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.call(ctx, http.MethodGet, "/users/me", nil, &profile, WithToken(token)); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListUsers returns a page of users
func (c *Client) ListUsers(ctx context.Context, q models.PageQuery) (*models.Page[models.UserProfile], error) {
	var page models.Page[models.UserProfile]
	if err := c.call(ctx, http.MethodGet, withQuery("/users", q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateUser changes the set fields of a user
func (c *Client) UpdateUser(ctx context.Context, id uint64, patch models.UserPatch) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.call(ctx, http.MethodPut, "/users/"+strconv.FormatUint(id, 10), patch, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.call(ctx, http.MethodDelete, "/users/"+strconv.FormatUint(id, 10), nil, nil)
}
