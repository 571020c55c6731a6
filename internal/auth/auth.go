// Package auth signs the user in and keeps the session in the local
// database.
package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// Session is the signed-in identity. Token is nil for anonymous sessions.
type Session struct {
	Email string
	Token *oauth2.Token
}

// Valid reports whether the session can be used without signing in again.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	return s.Token == nil || s.Token.Valid()
}

// Authenticator is the sign-in collaborator used by the CLI.
//
// Current returns the stored session, or (nil, nil) when there is none.
type Authenticator interface {
	SignIn(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*Session, error)
}

// AnonymousEmail is reported by Anonymous sessions.
const AnonymousEmail = "anonymous"

// Anonymous is used when no OAuth client is configured. It is always
// signed in.
type Anonymous struct{}

func (Anonymous) SignIn(ctx context.Context) (*Session, error) {
	return &Session{Email: AnonymousEmail}, nil
}

func (Anonymous) SignOut(ctx context.Context) error { return nil }

func (Anonymous) Current(ctx context.Context) (*Session, error) {
	return &Session{Email: AnonymousEmail}, nil
}
