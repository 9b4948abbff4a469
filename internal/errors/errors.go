package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a remote API reports that the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrServer is returned when a remote API answers with a 5xx status.
	ErrServer = errors.New("server error")
)

// ErrInvalidEcosystem is returned when the selected package database is neither 'npm' nor 'pypi'.
type ErrInvalidEcosystem struct {
	Value string
}

func (e *ErrInvalidEcosystem) Error() string {
	return fmt.Sprintf("invalid package database: %q, expected 'npm' or 'pypi'", e.Value)
}

// StatusError is returned when a response arrived but its status code was not 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// FromStatus maps a non-200 HTTP status code to the error kinds understood by the request executor.
func FromStatus(code int) error {
	switch {
	case code == 404:
		return ErrNotFound
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, code)
	default:
		return &StatusError{Code: code}
	}
}
