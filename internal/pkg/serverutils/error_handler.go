package serverutils

import (
	"errors"
	"log"

	"trade-assistant-be/pkg/provider"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers into
// safe JSON responses. Provider internals and stack traces never reach the
// client; users see a validation message, the generic unavailable message,
// or a plain internal error.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Status).JSON(fiber.Map{"message": apiErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		if provider.IsTransient(err) {
			log.Printf("[ERROR] provider unavailable: %v", err)
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "service unavailable, please try again"})
		}

		log.Printf("[ERROR] unhandled: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
