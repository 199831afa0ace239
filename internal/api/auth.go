package api

import (
	"context"
	"net/http"

	"github.com/verte-zerg/tecla/internal/model"
)

// Credentials are the login form values.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the sign-up form values.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordReset completes an account recovery.
type PasswordReset struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	Message string     `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/login", nil, creds, &out)
	return out, err
}

// Register creates an account and returns the server message.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/register", nil, reg, &out)
	return out.Message, err
}

// ForgotPassword asks the server to send a recovery code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/forgot-password", nil, map[string]string{"email": email}, &out)
	return out.Message, err
}

// ResetPassword sets a new password using a recovery code.
func (c *Client) ResetPassword(ctx context.Context, reset PasswordReset) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/reset-password", nil, reset, &out)
	return out.Message, err
}
