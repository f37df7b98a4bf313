package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/marshallshelly/stockroom/pkg/session"
)

// ErrInvalidLoginResponse is returned when a successful login carries no
// usable token.
var ErrInvalidLoginResponse = errors.New("invalid response from server")

// Credentials are sent to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is sent to the register endpoint.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account echoed back by login and register.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Token   string `json:"token"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

func (r tokenResponse) tokens() session.Tokens {
	access := r.Access
	if access == "" {
		access = r.Token
	}
	return session.Tokens{Access: access, Refresh: r.Refresh}
}

// Login exchanges credentials for tokens. It does not start the session; the
// caller decides when to do that.
func (c *Client) Login(ctx context.Context, creds Credentials) (session.Tokens, error) {
	var resp tokenResponse
	if err := c.Do(ctx, http.MethodPost, "login/", nil, creds, &resp); err != nil {
		return session.Tokens{}, err
	}
	tokens := resp.tokens()
	if tokens.Access == "" {
		return session.Tokens{}, ErrInvalidLoginResponse
	}
	return tokens, nil
}

// Register creates an account. The tokens the backend returns alongside are
// ignored; the user logs in afterwards.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.Do(ctx, http.MethodPost, "register/", nil, reg, nil)
}
