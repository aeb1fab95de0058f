package database

import "errors"

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user create or update would
	// reuse an email already held by another user.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrAlreadyDecided is returned when a status change hits a booking
	// that is no longer WAITING.
	ErrAlreadyDecided = errors.New("booking already decided")

	// ErrItemUnavailable is returned when a booking insert finds the
	// item's availability flag cleared at write time.
	ErrItemUnavailable = errors.New("item not available")

	// ErrNoEligibleBooking is returned when a comment insert finds no
	// completed approved booking by the author at write time.
	ErrNoEligibleBooking = errors.New("no eligible booking")
)
