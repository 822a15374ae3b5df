// Package service implements the booking engine on top of the storage
// layer: the write path that atomically creates, cancels and releases
// bookings, and the read path that evaluates per-seat availability.
// All expected failures are typed sentinel errors so handlers can map
// them to HTTP statuses with errors.Is; only ErrStorage represents an
// infrastructure fault, and callers should treat it as retryable.
package service

import (
	"errors"
	"fmt"
)

// Validation failures on the booking request.
var (
	// ErrOutOfWindow means the requested date is in the past or more
	// than 14 days ahead.
	ErrOutOfWindow = errors.New("date is outside the booking window")

	// ErrWeekendNotBookable means the requested date is a Saturday or
	// Sunday.
	ErrWeekendNotBookable = errors.New("weekends are not bookable")

	// ErrSeatNotFound means the requested seat id does not exist.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrNotEligible means policy bars this user from the seat on the
	// requested date regardless of occupancy. The concrete error is a
	// NotEligibleError carrying the human-readable reason.
	ErrNotEligible = errors.New("not eligible for this seat")
)

// Conflicts detected by the atomic check-and-insert.
var (
	// ErrAlreadyBooked means another ACTIVE booking holds the seat for
	// that date.
	ErrAlreadyBooked = errors.New("seat is already booked for this date")

	// ErrDuplicateUserBooking means the user already holds a seat for
	// that date.
	ErrDuplicateUserBooking = errors.New("you already have a booking for this date")
)

// Failures on cancel and release.
var (
	// ErrBookingNotFound means no booking exists with the given id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrForbidden means the actor is neither the booking's owner nor
	// an admin.
	ErrForbidden = errors.New("forbidden")

	// ErrNotActive means the booking has already reached a terminal
	// status and cannot transition again.
	ErrNotActive = errors.New("booking is not active")

	// ErrNotReleasable means release was attempted on a floating seat;
	// only designated seats can be released.
	ErrNotReleasable = errors.New("only designated seats can be released")
)

// ErrStorage wraps any persistence fault that is not one of the
// expected outcomes above.
var ErrStorage = errors.New("storage error")

// NotEligibleError carries the specific policy reason (batch mismatch
// or floating lock) alongside the ErrNotEligible kind.
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return "not eligible for this seat: " + e.Reason
}

// Unwrap lets errors.Is(err, ErrNotEligible) match.
func (e *NotEligibleError) Unwrap() error { return ErrNotEligible }

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
