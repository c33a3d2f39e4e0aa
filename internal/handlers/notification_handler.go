package handlers

import (
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns a user's inbox. Residents may only read their own.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	userID := c.Params("userId")
	if userID != actor.ID && !actor.IsStaff() {
		return serviceError(c, services.ErrForbidden)
	}

	list, err := h.notifications.ListForUser(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	unread, err := h.notifications.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	return c.JSON(dto.NotificationListResponse{Success: true, Unread: unread, Notifications: list})
}

func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	kind := req.Type
	if kind == "" {
		kind = models.NotificationAnnouncement
	}

	n, err := h.notifications.Create(c.UserContext(), req.UserID, req.Message, kind, req.RelatedComplaintID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NotificationResponse{
		Success:      true,
		Message:      "Notification created",
		Notification: n,
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(c.UserContext(), id, actor); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	updated, err := h.notifications.MarkAllRead(c.UserContext(), actor.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MarkAllReadResponse{Success: true, Message: "Notifications marked as read", Updated: updated})
}

func (h *NotificationHandler) Announce(c *fiber.Ctx) error {
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	sent, err := h.notifications.Announce(c.UserContext(), req.Title, req.Message)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AnnouncementResponse{
		Success:    true,
		Message:    "Announcement sent",
		Recipients: sent,
	})
}
