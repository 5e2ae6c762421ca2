// Package common defines shared constants and sentinel errors used across
// the postline client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("backend unavailable")
	ErrSchema      = errors.New("malformed record")

	// Validation errors (caught before any network call).
	ErrValidation = errors.New("validation error")

	// Identity / authorization errors.
	ErrAuth         = errors.New("authentication failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSession    = errors.New("no active session")

	// Blob store errors.
	ErrUpload = errors.New("upload failed")
)
