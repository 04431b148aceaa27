package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware authenticates the request and stashes the caller's identity
// and assistant entitlement in locals. Tier decisions are made upstream by
// the identity provider; we only read the boolean it issued.
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	ctx.Locals("user_id", claims["user_id"])

	mayUseAssistant := false
	if v, ok := claims["may_use_assistant"].(bool); ok {
		mayUseAssistant = v
	}
	ctx.Locals("may_use_assistant", mayUseAssistant)

	mayUpload := mayUseAssistant
	if v, ok := claims["may_upload_documents"].(bool); ok {
		mayUpload = v
	}
	ctx.Locals("may_upload_documents", mayUpload)

	return ctx.Next()
}

// RequireAssistantAccess gates the assistant routes on the entitlement the
// authorization collaborator issued.
func RequireAssistantAccess(ctx *fiber.Ctx) error {
	if allowed, ok := ctx.Locals("may_use_assistant").(bool); !ok || !allowed {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Assistant requires an eligible subscription"})
	}
	return ctx.Next()
}
