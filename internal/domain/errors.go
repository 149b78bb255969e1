package domain

import "errors"

var (
	// ErrUnknownRole is returned when a role outside the enumeration is parsed.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownStatus is returned when a status outside the enumeration is parsed.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrInconsistentHistory is returned when the tip of an approval history
	// does not match the entity's current status.
	ErrInconsistentHistory = errors.New("approval history inconsistent with status")

	// ErrInvalidInput is returned when a claim or allowance input fails
	// client-side validation before it is sent to the backend.
	ErrInvalidInput = errors.New("invalid input")
)
