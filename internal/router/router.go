package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Haswanth2005/wissen/internal/handler"
	"github.com/Haswanth2005/wissen/internal/middleware"
	"github.com/Haswanth2005/wissen/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers and
// uptime monitors.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler) {
	e.GET("/healthz", health.Check)
}

// RegisterAuth registers the authentication surface. /v1/auth holds
// the unauthenticated register and login endpoints; /v1/me requires a
// valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBooking registers the seat map and booking lifecycle
// endpoints. Every route requires a valid JWT; both roles may book,
// admins additionally see all bookings on the list endpoint and may
// cancel or release on behalf of others.
func RegisterBooking(e *echo.Echo, seats *handler.SeatHandler, bookings *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		limit,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEmployee, model.RoleAdmin),
	)
	g.GET("/seats", seats.ListForDate)
	g.POST("/bookings", bookings.Create)
	g.GET("/bookings", bookings.List)
	g.POST("/bookings/:id/cancel", bookings.Cancel)
	g.POST("/bookings/:id/release", bookings.Release)
}

// RegisterAdmin registers the admin-only surface: the rotation anchor
// and user management.
func RegisterAdmin(e *echo.Echo, config *handler.ConfigHandler, users *handler.UserAdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/config", config.Get)
	g.PUT("/config", config.Put)
	g.GET("/users", users.List)
	g.POST("/users", users.Create)
	g.PUT("/users/:id", users.Update)
	g.DELETE("/users/:id", users.Delete)
}
