package middleware

import (
	"buyerlead_backend/pkg/ratelimit"
	"buyerlead_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
)

// CheckRateLimit rejects the request with 429 once the principal exhausts its
// window. Runs after AuthMiddleware; mutating buyer routes only.
func CheckRateLimit(limiter ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		if !limiter.Allow(claims.UserID) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		}

		return c.Next()
	}
}
