package middleware

import (
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// RoleRequired lets the request through only when the token's role is one
// of roles. It must run after JWTProtected.
func RoleRequired(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if _, ok := allowed[principal.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access denied for role " + principal.Role,
			})
		}
		return c.Next()
	}
}
