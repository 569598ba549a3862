// Package auth covers account registration and credential flows. None of
// these reads are cached: they are identity-sensitive and rare.
package auth

import (
	"context"

	"hireflow/internal/api"
	"hireflow/internal/common/logger"
	"hireflow/internal/common/validation"
	"hireflow/internal/models"
)

var registerSchema = validation.MustNew(`{
	"type": "object",
	"required": ["email", "password", "full_name"],
	"properties": {
		"email":     {"type": "string", "minLength": 3},
		"password":  {"type": "string", "minLength": 8},
		"full_name": {"type": "string", "minLength": 1},
		"role":      {"type": "string", "enum": ["candidate", "recruiter", "admin"]}
	}
}`)

type Client struct {
	api    *api.Client
	logger logger.Logger
}

func NewClient(apiClient *api.Client, log logger.Logger) *Client {
	return &Client{
		api:    apiClient,
		logger: log.WithFields(map[string]interface{}{"resource": "auth"}),
	}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// Register creates an account. The payload is validated before any
// network work.
func (c *Client) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if err := registerSchema.Validate(input); err != nil {
		return nil, err
	}

	env, err := c.api.Post(ctx, "/auth/register", input)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyEmail confirms the address behind a verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	_, err := c.api.Post(ctx, "/auth/verify-email", map[string]interface{}{
		"token": token,
	})
	return err
}

// ForgotPassword starts the reset flow for an email address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.api.Post(ctx, "/auth/forgot-password", map[string]interface{}{
		"email": email,
	})
	return err
}

// ResetPassword completes the reset flow with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := c.api.Post(ctx, "/auth/reset-password", map[string]interface{}{
		"token":        token,
		"new_password": newPassword,
	})
	return err
}

// GetUser returns the account owning the configured bearer token.
func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	env, err := c.api.Get(ctx, "/auth/get-user", nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
