// Package identity talks to the email/password authentication provider and
// remembers the signed-in user between runs.
package identity

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrNoAPIKey           = errors.New("identity toolkit needs an api key")
)

// Session is a signed-in user. The provider's id token travels as the access
// token.
type Session struct {
	Email  string        `json:"email"`
	UserID string        `json:"user_id"`
	Token  *oauth2.Token `json:"token,omitempty"`
}

// Provider is the external authentication service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut() error
	CurrentUser() *Session
}
