package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Complaint    *handlers.ComplaintHandler
	Notification *handlers.NotificationHandler
	Admin        *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/login", h.Auth.Login)

	protected := middleware.JWTProtected(cfg)
	staff := middleware.RoleRequired(models.RoleAdmin, models.RoleSupreme)
	supreme := middleware.RoleRequired(models.RoleSupreme)

	api.Get("/users/me", protected, h.Auth.Me)

	complaints := api.Group("/complaints", protected)
	complaints.Post("/", h.Complaint.Create)
	complaints.Get("/", h.Complaint.List)
	complaints.Get("/user/:userId", h.Complaint.ListByUser)
	complaints.Get("/:complaintId", h.Complaint.Get)
	complaints.Put("/:complaintId/endorse", h.Complaint.Endorse)
	complaints.Put("/:complaintId/status", staff, h.Complaint.UpdateStatus)
	complaints.Delete("/:complaintId", h.Complaint.Delete)

	api.Post("/comments/:complaintId", protected, h.Complaint.AddComment)

	notifications := api.Group("/notifications", protected)
	notifications.Post("/", staff, h.Notification.Create)
	notifications.Put("/read-all", h.Notification.MarkAllRead)
	notifications.Get("/:userId", h.Notification.List)
	notifications.Put("/:notificationId/read", h.Notification.MarkRead)

	api.Get("/analytics", protected, staff, h.Admin.Analytics)
	api.Post("/announcements", protected, supreme, h.Notification.Announce)
	api.Post("/escalations/run", protected, supreme, h.Admin.RunEscalation)
}
