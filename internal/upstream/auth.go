package upstream

import (
	"context"
	"net/http"
)

// AuthPayload is the upstream's response to login and registration.
type AuthPayload struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	Roles        []string `json:"roles,omitempty"`
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileInput carries a settings-page profile edit.
type ProfileInput struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Login exchanges credentials for a token pair. Never carries an
// Authorization header.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	body := map[string]string{"email": email, "password": password}
	var payload AuthPayload
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", nil, input, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RefreshToken mints a new access token from a refresh token. The refresh
// token may rotate; an empty refreshToken in the response keeps the old one.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (access, refresh string, err error) {
	body := map[string]string{"refreshToken": refreshToken}
	var payload AuthPayload
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/refresh-token", nil, body, &payload); err != nil {
		return "", "", err
	}
	return payload.Token, payload.RefreshToken, nil
}

// UpdateProfile pushes a profile edit upstream.
func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) error {
	return c.sendJSON(ctx, http.MethodPut, "/users/me", nil, input, nil)
}
