package serverutils

import "github.com/gofiber/fiber/v2"

// ApiError is an error the handler layer may show to users verbatim.
// Anything else is masked by the error handler middleware.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

// NewInputError marks a request validation failure. Surfaced immediately,
// before any provider call.
func NewInputError(message string) *ApiError {
	return &ApiError{Status: fiber.StatusBadRequest, Message: message}
}

// NewServiceUnavailableError is the generic message for provider failures
// that survived their retry budget.
func NewServiceUnavailableError() *ApiError {
	return &ApiError{Status: fiber.StatusServiceUnavailable, Message: "service unavailable, please try again"}
}
