package provider

import (
	"errors"
	"fmt"

	"github.com/tagforge/tagforge/internal/domain"
)

// Error is a failed provider call, carrying whatever HTTP status the
// upstream failure exposed. StatusCode 0 means the failure had no usable
// status (network error, decode error).
type Error struct {
	Method     domain.Method
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider call failed with status %d: %s", e.Method, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider call failed: %s", e.Method, e.Message)
}

// StatusOf extracts the upstream HTTP status attached to a provider error,
// or 0 when err carries none.
func StatusOf(err error) int {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}
