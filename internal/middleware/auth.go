package middleware

import (
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller as carried in the access token.
type Principal struct {
	Username string
	Name     string
	Role     string
}

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// CurrentPrincipal reads the caller from the token JWTProtected verified.
func CurrentPrincipal(c *fiber.Ctx) (Principal, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Principal{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, false
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, false
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	return Principal{Username: sub, Name: name, Role: role}, true
}
