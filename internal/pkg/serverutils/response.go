package serverutils

import "github.com/gofiber/fiber/v2"

// SuccessResponse is the standard success envelope.
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"message": message,
		"data":    data,
	}
}
