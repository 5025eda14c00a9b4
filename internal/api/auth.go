package api

import (
	"context"
	"net/http"
)

// loginRequest is the payload for all three login routes
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates against the route selected by role. The three routes
// share one payload and response shape but are distinct backend endpoints.
func (c *Client) Login(ctx context.Context, identifier, password string, role Role) (*AuthResult, error) {
	req := loginRequest{
		Identifier: identifier,
		Password:   password,
	}

	var result AuthResult
	if err := c.doJSON(ctx, http.MethodPost, role.LoginPath(), nil, req, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("login succeeded", "role", role.String(), "user_id", result.UserID)
	return &result, nil
}

// Register creates a citizen account. The backend logs the new user in as
// part of registration, so the result carries a token like Login's does.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("registration succeeded", "user_id", result.UserID)
	return &result, nil
}
