package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/blogfront/internal/model"
)

// ErrMissingToken is a successful auth response that carried no token
var ErrMissingToken = errors.New("auth response did not include a token")

// ErrMissingIdentity is an identity lookup that returned no user
var ErrMissingIdentity = errors.New("identity lookup returned no user")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. It never sends a stored credential.
func (c *Client) Login(ctx context.Context, email, password string) (model.AuthGrant, error) {
	var grant model.AuthGrant
	err := c.Post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &grant, Anonymous())
	if err != nil {
		return model.AuthGrant{}, err
	}
	if grant.Token == "" {
		return model.AuthGrant{}, ErrMissingToken
	}
	return grant, nil
}

// Register creates an account and returns its token
func (c *Client) Register(ctx context.Context, email, username, password string) (model.AuthGrant, error) {
	var grant model.AuthGrant
	body := registerRequest{Email: email, Username: username, Password: password}
	if err := c.Post(ctx, "/api/auth/register", body, &grant, Anonymous()); err != nil {
		return model.AuthGrant{}, err
	}
	if grant.Token == "" {
		return model.AuthGrant{}, ErrMissingToken
	}
	return grant, nil
}

// Me looks up the identity behind the current credential
func (c *Client) Me(ctx context.Context) (model.Identity, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, c.mePath, &raw); err != nil {
		return model.Identity{}, err
	}
	return decodeIdentity(raw)
}

// decodeIdentity accepts a bare user, {"data": user} or {"user": user}
func decodeIdentity(raw json.RawMessage) (model.Identity, error) {
	var wrapped struct {
		Data *model.Identity `json:"data"`
		User *model.Identity `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return model.Identity{}, fmt.Errorf("failed to parse identity: %w", err)
	}

	var id model.Identity
	switch {
	case wrapped.Data != nil:
		id = *wrapped.Data
	case wrapped.User != nil:
		id = *wrapped.User
	default:
		if err := json.Unmarshal(raw, &id); err != nil {
			return model.Identity{}, fmt.Errorf("failed to parse identity: %w", err)
		}
	}

	if id.ID == 0 && id.Email == "" && id.Username == "" {
		return model.Identity{}, ErrMissingIdentity
	}
	return id, nil
}
