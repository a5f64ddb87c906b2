// Package domain defines the core entities and errors shared by the
// server, the providers, and the client.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrUnknownMethod is returned when a method string does not name a
	// configured provider.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrTextTooShort is returned when the trimmed input text is below the
	// minimum length.
	ErrTextTooShort = errors.New("text too short")

	// ErrTextTooLong is returned when the raw input text exceeds the
	// maximum length.
	ErrTextTooLong = errors.New("text too long")

	// ErrMissingCredential is returned when the selected provider has no
	// API key configured.
	ErrMissingCredential = errors.New("provider credential not configured")
)

// Input length bounds enforced by the request pipeline. The minimum is
// checked against trimmed text, the maximum against the raw text.
const (
	MinTextLength = 20
	MaxTextLength = 50_000
)
