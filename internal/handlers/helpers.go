package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// currentActor maps the verified token onto the caller services expect.
func currentActor(c *fiber.Ctx) (services.Actor, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: p.Username, Name: p.Name, Role: p.Role}, true
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
}

// serviceError writes the response for an error returned by a service.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrComplaintNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSelfEndorsement),
		errors.Is(err, services.ErrAlreadyEndorsed),
		errors.Is(err, services.ErrEmailTaken):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrMissingComment),
		errors.Is(err, services.ErrMissingRecipient),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidSignup):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err,
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
