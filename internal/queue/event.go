// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingCreatedEvent is published after a booking commits. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID  string `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	UserName   string `json:"user_name"`
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	Date       string `json:"date"`
	CreatedAt  string `json:"created_at"`
}
