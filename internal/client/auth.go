package client

import (
	"context"
	"net/http"

	"github.com/rookgm/storefront/internal/models"
)

// SignIn exchanges credentials for a bearer token
func (c *Client) SignIn(ctx context.Context, credentials models.LoginRequest) (*models.AuthResponse, error) {
	// POST /auth/signin
	var resp models.AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/signin", credentials, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates new user account
func (c *Client) Register(ctx context.Context, user models.User) (*models.User, error) {
	// POST /auth/register
	var resp models.User
	if err := c.call(ctx, http.MethodPost, "/auth/register", user, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates token on the server
func (c *Client) Logout(ctx context.Context, token string) (string, error) {
	// POST /auth/logout
	var msg string
	if err := c.call(ctx, http.MethodPost, "/auth/logout", nil, &msg, WithToken(token)); err != nil {
		return "", err
	}
	return msg, nil
}
