package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/MKH354/hutangku/internal/adapters/store"
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/MKH354/hutangku/internal/core/services"
	"github.com/MKH354/hutangku/internal/handlers"
	"github.com/MKH354/hutangku/internal/middleware"
	"github.com/MKH354/hutangku/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	snapshotStore, cleanup, err := store.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	logger.Info("Snapshot store ready", slog.String("backend", cfg.StoreBackend))

	sessions := services.NewSessionManager(snapshotStore)
	defer sessions.CloseAll()

	container := &portssvc.ServiceContainer{
		Ledger: services.NewLedgerService(sessions),
		Calendar: services.NewCalendarService(sessions,
			services.WithCalendarName(cfg.CalendarName),
			services.WithCalendarTimezone(cfg.CalendarTimezone)),
		Reporting: services.NewReportingService(sessions),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
