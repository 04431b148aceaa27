package serverutils

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminKeyMiddleware guards library curation routes with the shared admin
// key. An empty configured key locks the routes entirely.
func AdminKeyMiddleware(ctx *fiber.Ctx) error {
	required := os.Getenv("ADMIN_LIBRARY_KEY")
	if required == "" {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Library administration is not configured"})
	}
	provided := ctx.Get("X-Admin-Library-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(required)) != 1 {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorised"})
	}
	return ctx.Next()
}
