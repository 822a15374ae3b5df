package model

import "time"

// Booking statuses. A booking starts ACTIVE and moves exactly once to
// CANCELLED or RELEASED; both are terminal. RELEASED exists only for
// designated seats and is kept distinct from CANCELLED for reporting:
// a released desk was voluntarily given up for that day and becomes
// bookable by anyone as a one-off.
const (
	BookingActive    = "ACTIVE"
	BookingCancelled = "CANCELLED"
	BookingReleased  = "RELEASED"
)

// Booking records that a user holds a specific seat for a specific
// calendar day. Date carries day granularity only; the time component
// is always midnight UTC. The ID is an application-generated UUID so
// that the conditional insert can run as a single statement without a
// LastInsertId roundtrip.
//
// Fields:
//  ID        – UUID string primary key.
//  UserID    – user who holds the seat.
//  SeatID    – seat being held.
//  Date      – calendar day of the booking (midnight UTC).
//  Status    – BookingActive, BookingCancelled or BookingReleased.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last status change timestamp.
type Booking struct {
	ID        string    // bookings.id
	UserID    uint64    // bookings.user_id
	SeatID    uint64    // bookings.seat_id
	Date      time.Time // bookings.date
	Status    string    // bookings.status
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at

	// Seat is populated by list queries that join the seats table so
	// responses can show the desk label without a second lookup.
	Seat *Seat
}
