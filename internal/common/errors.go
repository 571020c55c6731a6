// Package common defines shared sentinel errors used across imgdrop
// packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrTokenExpired   = errors.New("token expired")

	// Configuration errors.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
