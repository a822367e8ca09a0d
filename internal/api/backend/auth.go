package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend. The response is the user snapshot
// with the session token embedded.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &user, nil
}

// Register creates an account and returns the authenticated user snapshot.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &user, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	err := c.do(ctx, http.MethodPut, "/users/me/password", nil, changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     updated,
	}, nil)
	if err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}
	return nil
}
