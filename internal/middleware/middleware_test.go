package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, secret, sub, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"name": "Tester",
		"role": role,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret, CORSOrigins: "*"}
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{"username": p.Username, "role": p.Role, "name": p.Name})
	})
	app.Get("/staff", JWTProtected(cfg), RoleRequired("admin", "supreme"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestJWTProtected(t *testing.T) {
	app := newTestApp()
	future := time.Now().Add(time.Hour)

	resp := doRequest(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "/me", signToken(t, "wrong-secret", "user1@gmail.com", "user", future))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "/me", signToken(t, testSecret, "user1@gmail.com", "user", time.Now().Add(-time.Minute)))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "/me", signToken(t, testSecret, "user1@gmail.com", "user", future))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestRoleRequired(t *testing.T) {
	app := newTestApp()
	future := time.Now().Add(time.Hour)

	resp := doRequest(t, app, "/staff", signToken(t, testSecret, "user1@gmail.com", "user", future))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "/staff", signToken(t, testSecret, "admin@perundurai", "admin", future))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, "/staff", signToken(t, testSecret, "supreme@perundurai", "supreme", future))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
