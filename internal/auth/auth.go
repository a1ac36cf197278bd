// Package auth talks to the identity provider and keeps the signed-in session.
package auth

import (
	"errors"
	"time"
)

var (
	// ErrNotConfigured is returned by every provider call when the provider URL
	// or anon key is unset.
	ErrNotConfigured = errors.New("identity provider not configured; set auth.url and auth.anon_key")

	// ErrSignInRequired is returned when an operation needs a session and there is none.
	ErrSignInRequired = errors.New("sign in required")

	// ErrInvalidToken is returned by the verifier for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Error is a failure reported by the identity provider. Message is the
// provider's own description and is meant to be shown to the user.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// User identifies the account behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an established sign-in.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
