// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as services and handlers to distinguish failure scenarios
// without inspecting driver errors. The two *DayTaken values are the
// storage-level faces of the uniqueness invariants: at most one ACTIVE
// booking per (seat, date) and per (user, date).
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingNotActive is returned when a status transition is applied
// to a booking that is no longer ACTIVE. Cancel and release are
// conditional updates, so a concurrent transition surfaces here rather
// than overwriting a terminal status.
var ErrBookingNotActive = errors.New("booking is not active")

// ErrSeatDayTaken is returned when an insert would create a second
// ACTIVE booking for the same seat and date.
var ErrSeatDayTaken = errors.New("seat already booked for this date")

// ErrUserDayTaken is returned when an insert would create a second
// ACTIVE booking for the same user and date.
var ErrUserDayTaken = errors.New("user already has a booking for this date")

// ErrEmailTaken is returned when a user insert or update collides with
// an existing email address.
var ErrEmailTaken = errors.New("email already in use")
