package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

type messageResponse struct {
	Message string `json:"message"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type changeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword requests a reset email and returns the backend's message
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.Post(ctx, "/api/password/forgot", forgotRequest{Email: email}, &resp, Anonymous()); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyResetToken reports whether a reset token is still usable
func (c *Client) VerifyResetToken(ctx context.Context, token string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	err := c.Get(ctx, "/api/password/verify-token?token="+url.QueryEscape(token), &resp, Anonymous())
	if err != nil {
		// The backend answers 400 for unknown or expired tokens
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return false, nil
		}
		return false, err
	}
	return resp.Valid, nil
}

// ResetPassword sets a new password using a reset token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp messageResponse
	body := resetRequest{Token: token, NewPassword: newPassword, ConfirmPassword: newPassword}
	if err := c.Post(ctx, "/api/password/reset", body, &resp, Anonymous()); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ChangePassword changes the signed-in user's password
func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) (string, error) {
	var resp messageResponse
	body := changeRequest{CurrentPassword: current, NewPassword: newPassword, ConfirmPassword: newPassword}
	if err := c.Post(ctx, "/api/password/change", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
