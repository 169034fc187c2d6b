package domain

import (
	"errors"
)

// Sentinel errors shared across the domain. Controllers map these to HTTP
// status codes; services and repositories wrap them with context via %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// Registration conflicts.
	ErrEventFull         = errors.New("event is fully booked")
	ErrAlreadyRegistered = errors.New("participant already registered for this event")
	ErrEventNotActive    = errors.New("cannot register for non-active event")

	// User conflicts and auth failures.
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrInvalidInput }

// ValidationError returns an error with the given human-readable message for
// which errors.Is(err, ErrInvalidInput) holds.
func ValidationError(msg string) error {
	return &validationError{msg: msg}
}
