package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NoStore marks responses as private and uncacheable. Payment data is
// per-user and must not be kept by shared caches.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return err
	}
}
