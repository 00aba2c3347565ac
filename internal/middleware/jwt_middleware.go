package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bazar/internal/services"
)

// PrincipalKey is the Locals key under which the authenticated user's
// ID is stored. Absent key means an anonymous request.
const PrincipalKey = "user_id"

// Principal returns the authenticated user's ID and whether the request
// carries one.
func Principal(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(PrincipalKey).(uint)
	return id, ok
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired rejects requests without a valid bearer token. Failing
// here is an authentication problem (401), never an authorization one.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header with a Bearer token is required",
			})
		}

		userID, err := authService.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(PrincipalKey, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the principal when a valid token is present and
// lets anonymous requests through untouched. Read endpoints use this so
// the same route can serve both audiences.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if userID, err := authService.ValidateToken(token); err == nil {
				c.Locals(PrincipalKey, userID)
			}
		}
		return c.Next()
	}
}
