package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/repository"
	"github.com/Haswanth2005/wissen/internal/schedule"
)

// ConfigHandler exposes the rotation anchor to admins. The anchor is
// the Monday the 14-day batch cycle counts from; until one is set the
// whole calendar evaluates as week 1.
type ConfigHandler struct {
	Config *repository.ConfigRepo
	Logger *zap.Logger
}

// NewConfigHandler constructs a ConfigHandler.
func NewConfigHandler(config *repository.ConfigRepo, logger *zap.Logger) *ConfigHandler {
	if config == nil || logger == nil {
		panic("nil dependency passed to NewConfigHandler")
	}
	return &ConfigHandler{Config: config, Logger: logger}
}

// Get handles GET /v1/admin/config. cycle_start_date is null when no
// anchor has been set yet.
func (h *ConfigHandler) Get(c echo.Context) error {
	anchor, err := h.Config.CycleStart(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var out *string
	if !anchor.IsZero() {
		s := anchor.Format("2006-01-02")
		out = &s
	}
	return c.JSON(http.StatusOK, echo.Map{"cycle_start_date": out})
}

// Put handles PUT /v1/admin/config. The anchor must be a Monday so
// week boundaries land where the rotation table expects them.
func (h *ConfigHandler) Put(c echo.Context) error {
	var body struct {
		CycleStartDate string `json:"cycle_start_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	anchor, err := parseDate(body.CycleStartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_start_date must be YYYY-MM-DD"})
	}
	if anchor.Weekday() != time.Monday {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_start_date must be a Monday"})
	}

	if err := h.Config.SetCycleStart(c.Request().Context(), schedule.StartOfDay(anchor)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Logger.Info("rotation anchor updated", zap.String("cycle_start_date", body.CycleStartDate))
	return c.JSON(http.StatusOK, echo.Map{"cycle_start_date": anchor.Format("2006-01-02")})
}
