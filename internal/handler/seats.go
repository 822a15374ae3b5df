package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Haswanth2005/wissen/internal/schedule"
	"github.com/Haswanth2005/wissen/internal/service"
)

// SeatHandler serves the seat map with per-seat availability verdicts.
type SeatHandler struct {
	Availability *service.AvailabilityService
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(availability *service.AvailabilityService) *SeatHandler {
	if availability == nil {
		panic("nil service passed to NewSeatHandler")
	}
	return &SeatHandler{Availability: availability}
}

// ListForDate handles GET /v1/seats?date=YYYY-MM-DD. The date defaults
// to today. Weekends return an empty seat list with a message so the
// UI can explain the blank floor plan.
func (h *SeatHandler) ListForDate(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	raw := c.QueryParam("date")
	date := schedule.StartOfDay(time.Now())
	if raw != "" {
		date, err = parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}

	av, err := h.Availability.SeatsForDate(c.Request().Context(), actor, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	resp := echo.Map{"seats": av.Seats, "meta": av.Meta}
	if schedule.IsWeekend(date) {
		resp["message"] = "No seats are bookable on weekends"
	}
	return c.JSON(http.StatusOK, resp)
}
