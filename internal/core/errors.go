package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a distribution is not found.
var ErrNotFound = errors.New("not found")

// HTTPError represents an HTTP error response from a package index.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

// NotFoundError wraps ErrNotFound with additional context.
type NotFoundError struct {
	Name    string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("distribution %s version %s not found", e.Name, e.Version)
	}
	return fmt.Sprintf("distribution %s not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports a descriptor field that failed validation.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ConflictError is returned when registering a distribution whose name is
// already installed at a different version.
type ConflictError struct {
	Name      string
	Installed string
	Proposed  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("distribution %s already installed at version %s (proposed %s)", e.Name, e.Installed, e.Proposed)
}
