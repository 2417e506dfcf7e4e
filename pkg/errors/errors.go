package errors

import (
	"errors"
	"fmt"
)

// Sentinels shared by the services and mapped to HTTP statuses by the API.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation error")
	ErrUnavailable   = errors.New("service unavailable")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrRateLimited   = errors.New("rate limited")
)

// Is reports whether err is one of the sentinels.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Invalid returns an ErrValidation carrying a formatted detail.
func Invalid(format string, args ...any) error {
	return detail(ErrValidation, format, args...)
}

// InvalidFilter returns an ErrInvalidFilter carrying a formatted detail.
func InvalidFilter(format string, args ...any) error {
	return detail(ErrInvalidFilter, format, args...)
}

func detail(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
