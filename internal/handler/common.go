package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Haswanth2005/wissen/internal/model"
	"github.com/Haswanth2005/wissen/internal/service"
)

// getActor assembles the service.Actor from the identity claims the
// JWT middleware stored in context. JWT numbers decode as float64, so
// the user id needs a type switch.
func getActor(c echo.Context) (service.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return service.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	batch, _ := c.Get("batch").(string)
	if batch == "" {
		batch = model.BatchNone
	}
	return service.Actor{ID: id, Role: role, Batch: batch}, nil
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDate parses a YYYY-MM-DD parameter into a UTC calendar day.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// bookingJSON is the wire shape of a booking shared by the booking
// endpoints. Seat details are embedded when the query joined them.
type bookingJSON struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	SeatID    uint64    `json:"seat_id"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Seat      *seatJSON `json:"seat,omitempty"`
}

type seatJSON struct {
	ID         uint64 `json:"id"`
	SeatNumber string `json:"seat_number"`
	Type       string `json:"type"`
}

func toBookingJSON(b *model.Booking) bookingJSON {
	out := bookingJSON{
		ID:        b.ID,
		UserID:    b.UserID,
		SeatID:    b.SeatID,
		Date:      b.Date.Format("2006-01-02"),
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
	if b.Seat != nil {
		out.Seat = &seatJSON{ID: b.Seat.ID, SeatNumber: b.Seat.SeatNumber, Type: b.Seat.Type}
	}
	return out
}
