package middleware

import (
	"autovia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const adminLocal = "admin"

// RequireAdmin ensures the shared admin credential is in the session.
// Returns 401 with the standard error format if not.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(adminLocal) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetAdmin returns the session admin from Locals (nil if not logged in).
func GetAdmin(c *fiber.Ctx) interface{} {
	return c.Locals(adminLocal)
}
