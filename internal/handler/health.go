package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes. It pings the database so a
// green health check actually means bookings can commit.
type HealthHandler struct {
	DB *sql.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	if db == nil {
		panic("nil database passed to NewHealthHandler")
	}
	return &HealthHandler{DB: db}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": "down"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
