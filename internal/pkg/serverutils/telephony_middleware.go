package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// TelephonyAuthMiddleware gates the webhook surface behind the shared secret
// configured with the telephony provider. An empty configured token disables
// the check, which is only acceptable for local development.
func TelephonyAuthMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Next()
		}

		presented := ctx.Get("X-Telephony-Token")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(ErrorResponse(401, "Invalid telephony token"))
		}
		return ctx.Next()
	}
}
