package crmapi

import (
	"context"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// LoginResult is the backend's answer to a successful sign-in.
type LoginResult struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var out LoginResult
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &APIError{Status: 200, Message: "Login failed"}
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*core.User, error) {
	var out struct {
		User *core.User `json:"user"`
	}
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &APIError{Status: 200, Message: DefaultMessage}
	}
	return out.User, nil
}

// ChangePassword updates the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, form core.PasswordChangeForm) error {
	body := map[string]string{
		"currentPassword": form.CurrentPassword,
		"newPassword":     form.Password,
	}
	return c.patch(ctx, "/auth/password", body, nil)
}
