package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/config"
	"github.com/Haswanth2005/wissen/internal/database"
	"github.com/Haswanth2005/wissen/internal/handler"
	"github.com/Haswanth2005/wissen/internal/middleware"
	"github.com/Haswanth2005/wissen/internal/queue"
	"github.com/Haswanth2005/wissen/internal/repository"
	"github.com/Haswanth2005/wissen/internal/router"
	"github.com/Haswanth2005/wissen/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	logger := config.NewLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrations failed: %v", err)
	}
	cancel()
	if v, err := database.MigrationVersion(context.Background(), db); err == nil {
		logger.Info("database ready", zap.Int64("schema_version", v))
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; callers degrade gracefully
	if rdb == nil {
		logger.Warn("redis unavailable, cycle config cache and rate limiting disabled")
	}

	// Repositories.
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	configRepo := repository.NewConfigRepo(db, rdb)

	// Services.
	bookingSvc := service.NewBookingService(seatRepo, bookingRepo, configRepo, logger)
	availabilitySvc := service.NewAvailabilityService(seatRepo, bookingRepo, configRepo, logger)

	// Handlers.
	authH := handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.TokenTTLDay, cfg.BcryptCost)
	seatH := handler.NewSeatHandler(availabilitySvc)
	bookingH := handler.NewBookingHandler(bookingSvc, logger)
	configH := handler.NewConfigHandler(configRepo, logger)
	usersH := handler.NewUserAdminHandler(userRepo, logger, cfg.BcryptCost)
	healthH := handler.NewHealthHandler(db)

	// Background consumer that records booking events from the broker.
	go queue.StartBookingConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e, healthH)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limit)
	router.RegisterBooking(e, seatH, bookingH, cfg.JWTSecret, limit)
	router.RegisterAdmin(e, configH, usersH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
