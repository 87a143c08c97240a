// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer. Every failure the core can produce maps to exactly one sentinel
// so callers branch with errors.Is instead of string matching.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an apartment or permit target is absent
	// or soft-deleted.
	ErrNotFound = errors.New("parkgate: not found")

	// ErrForbidden is returned on any authorization denial. It never
	// distinguishes a role failure from an ownership failure.
	ErrForbidden = errors.New("parkgate: forbidden")

	// ErrInvalidDelegate is returned when an apartment create/update names
	// an admin whose role cannot administer apartments.
	ErrInvalidDelegate = errors.New("parkgate: invalid delegate")

	// ErrAlreadyPermitted is returned when adding a vehicle that already has
	// an active permit on the apartment.
	ErrAlreadyPermitted = errors.New("parkgate: vehicle already permitted")

	// ErrNotPermitted is returned when removing or updating a permit that
	// has no active entry.
	ErrNotPermitted = errors.New("parkgate: vehicle not permitted")

	// ErrInvalidArgument is returned for malformed pagination or field
	// values.
	ErrInvalidArgument = errors.New("parkgate: invalid argument")

	// ErrUnavailable is returned when the storage layer fails transiently
	// and the caller cannot know whether the write applied.
	ErrUnavailable = errors.New("parkgate: storage unavailable")
)

// Error wraps a sentinel with the context of the attempted operation.
type Error struct {
	Err         error  // underlying sentinel
	Message     string // additional context
	ApartmentID string // apartment involved, if any
	Plate       string // vehicle plate involved, if any
	Action      string // attempted action, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying sentinel for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error wrapping a sentinel.
func New(err error, message string) *Error {
	return &Error{Err: err, Message: message}
}

// WithApartment attaches the apartment id.
func (e *Error) WithApartment(id string) *Error {
	e.ApartmentID = id
	return e
}

// WithPlate attaches the vehicle plate.
func (e *Error) WithPlate(plate string) *Error {
	e.Plate = plate
	return e
}

// WithAction attaches the attempted action.
func (e *Error) WithAction(action string) *Error {
	e.Action = action
	return e
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsForbidden reports whether err is an authorization denial.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsAlreadyPermitted reports whether err is an active-permit uniqueness
// violation.
func IsAlreadyPermitted(err error) bool { return errors.Is(err, ErrAlreadyPermitted) }

// IsNotPermitted reports whether err is a missing-active-permit failure.
func IsNotPermitted(err error) bool { return errors.Is(err, ErrNotPermitted) }

// IsInvalidArgument reports whether err is a malformed-input failure.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }
