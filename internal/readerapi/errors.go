package readerapi

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested book or annotation does not exist
var ErrNotFound = errors.New("reading API: not found")

// StatusError represents a non-2xx response from the reading API
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("reading API error: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("reading API error: HTTP %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == 404 {
		return ErrNotFound
	}
	return nil
}
