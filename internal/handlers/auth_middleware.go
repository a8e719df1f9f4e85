package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

const identityKey = "identity"

// RequireAuth validates the bearer token and stores the caller's identity
// in the request locals.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		identity, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// identityFrom returns the caller set by RequireAuth, or the zero identity.
func identityFrom(c *fiber.Ctx) services.Identity {
	if id, ok := c.Locals(identityKey).(services.Identity); ok {
		return id
	}
	return services.Identity{}
}
