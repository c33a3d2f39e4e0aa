package handlers

import (
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the staff dashboard and the manual escalation trigger.
type AdminHandler struct {
	analytics *services.AnalyticsService
	monitor   *services.EscalationMonitor
}

func NewAdminHandler(analytics *services.AnalyticsService, monitor *services.EscalationMonitor) *AdminHandler {
	return &AdminHandler{analytics: analytics, monitor: monitor}
}

func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "analytics": summary})
}

func (h *AdminHandler) RunEscalation(c *fiber.Ctx) error {
	n, err := h.monitor.RunOnce(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.EscalationRunResponse{
		Success:   true,
		Message:   "Escalation sweep completed",
		Escalated: n,
	})
}
