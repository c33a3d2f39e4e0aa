package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records also go to system_logs
	systemLogHandler := logging.NewSystemLogHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.Sink{Handler: stdoutHandler},
		logging.Sink{Handler: systemLogHandler, MinLevel: slog.LevelError},
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, logging.Retention{
		LogDays:          cfg.LogRetentionDays,
		NotificationDays: cfg.NotificationRetentionDays,
	}, cleanupDone)

	// Redis is optional; without it the store is uncached and nothing is published.
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		rdb = nil
	}

	var store storage.ComplaintStore = storage.NewGormComplaintStore(db)
	if rdb != nil {
		store = storage.NewCachedComplaintStore(store, rdb, cfg.CacheTTL)
	}

	// Services
	notificationService := services.NewNotificationService(db, rdb)
	complaintService := services.NewComplaintService(store, notificationService, cfg)
	authService := services.NewAuthService(db, cfg)
	analyticsService := services.NewAnalyticsService(store)
	monitor := services.NewEscalationMonitor(store, notificationService, cfg)

	if cfg.SeedDefaults {
		if err := services.NewSeeder(db, store).Seed(ctx); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(db, rdb),
		Complaint:    handlers.NewComplaintHandler(complaintService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Admin:        handlers.NewAdminHandler(analyticsService, monitor),
	})

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		monitor.Start(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	cancel()
	<-monitorDone
	close(cleanupDone)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	systemLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
