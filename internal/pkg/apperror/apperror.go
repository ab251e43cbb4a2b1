// Package apperror holds the sentinel errors shared by services and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a request rejected before any remote call was made.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSessionBusy is returned when another request holds the session lock.
	ErrSessionBusy = errors.New("session is busy")
)

// Invalid wraps ErrInvalidArgument with a human readable reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
