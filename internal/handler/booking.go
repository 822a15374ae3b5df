package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/model"
	"github.com/Haswanth2005/wissen/internal/queue"
	"github.com/Haswanth2005/wissen/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP. All policy
// decisions live in the service layer; this layer only translates
// between JSON and service errors.
type BookingHandler struct {
	Bookings *service.BookingService
	Logger   *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService, logger *zap.Logger) *BookingHandler {
	if bookings == nil || logger == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Logger: logger}
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		SeatID uint64 `json:"seat_id"`
		Date   string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	b, err := h.Bookings.Create(c.Request().Context(), actor, body.SeatID, date)
	if err != nil {
		return bookingError(c, err)
	}

	// Event publishing is best effort; a broker outage never fails the
	// booking that already committed.
	go h.publishCreated(b)

	return c.JSON(http.StatusCreated, echo.Map{"booking": toBookingJSON(b)})
}

// List handles GET /v1/bookings. Employees see their own bookings,
// admins see everyone's. ?upcoming=true restricts to active bookings
// from today onward.
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	upcoming := c.QueryParam("upcoming") == "true"

	list, err := h.Bookings.ListForActor(c.Request().Context(), actor, upcoming)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingJSON, 0, len(list))
	for i := range list {
		out = append(out, toBookingJSON(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.finish(c, model.BookingCancelled)
}

// Release handles POST /v1/bookings/:id/release. Only designated-seat
// bookings can be released; the freed seat stays designated for the
// batch on duty that day.
func (h *BookingHandler) Release(c echo.Context) error {
	return h.finish(c, model.BookingReleased)
}

func (h *BookingHandler) finish(c echo.Context, newStatus string) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking id is required"})
	}

	var b *model.Booking
	if newStatus == model.BookingReleased {
		b, err = h.Bookings.Release(c.Request().Context(), actor, id)
	} else {
		b, err = h.Bookings.Cancel(c.Request().Context(), actor, id)
	}
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingJSON(b)})
}

// publishCreated emits a booking.created event to the broker.
func (h *BookingHandler) publishCreated(b *model.Booking) {
	ev := queue.BookingCreatedEvent{
		BookingID: b.ID,
		UserID:    b.UserID,
		SeatID:    b.SeatID,
		Date:      b.Date.Format("2006-01-02"),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.Seat != nil {
		ev.SeatNumber = b.Seat.SeatNumber
		ev.SeatType = b.Seat.Type
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := queue.PublishBookingCreated(ctx, ev); err != nil {
		h.Logger.Warn("booking event not published",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

// bookingError maps service sentinels onto HTTP responses.
func bookingError(c echo.Context, err error) error {
	var ne *service.NotEligibleError
	switch {
	case errors.Is(err, service.ErrOutOfWindow):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is outside the booking window"})
	case errors.Is(err, service.ErrWeekendNotBookable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekends are not bookable"})
	case errors.Is(err, service.ErrNotActive):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is no longer active"})
	case errors.Is(err, service.ErrNotReleasable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only designated seat bookings can be released"})
	case errors.As(err, &ne):
		return c.JSON(http.StatusForbidden, echo.Map{"error": ne.Reason})
	case errors.Is(err, service.ErrNotEligible):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "seat is not available to you on this date"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	case errors.Is(err, service.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, service.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, service.ErrAlreadyBooked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is already booked for this date"})
	case errors.Is(err, service.ErrDuplicateUserBooking):
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a booking for this date"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
