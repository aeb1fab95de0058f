package service

import "errors"

// Error kinds returned by the services. The HTTP layer maps each kind
// to a response status, so services wrap these with %w and never
// reference status codes themselves.
var (
	// ErrInvalidInput marks a request the caller can fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")

	// ErrBookingConflict marks a booking operation the caller is not a
	// party to, including an owner booking their own item.
	ErrBookingConflict = errors.New("booking conflict")

	// ErrConflict marks a uniqueness violation such as a duplicate email.
	ErrConflict = errors.New("conflict")
)
