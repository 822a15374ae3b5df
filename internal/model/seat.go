package model

import "time"

// Seat kinds. Designated seats follow the batch rotation; floating
// seats are open to anyone once the unlock cutoff has passed.
const (
	SeatDesignated = "DESIGNATED"
	SeatFloating   = "FLOATING"
)

// Seat describes a physical desk seat in the office. Seats are
// reference data: they are created by the seed migration and never
// change during normal operation. SeatNumber is the human label
// printed on the desk (D01..D40 for designated, F01..F10 for floating).
//
// Fields:
//  ID         – primary key identifier.
//  SeatNumber – human label of the seat (e.g. "D07", "F02").
//  Type       – SeatDesignated or SeatFloating.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    // seats.id
	SeatNumber string    // seats.seat_number
	Type       string    // seats.type
	CreatedAt  time.Time // seats.created_at
}
