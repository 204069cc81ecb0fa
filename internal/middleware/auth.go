package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"todolist-api/internal/service"
	"todolist-api/pkg/logger"
	"todolist-api/pkg/response"
)

const userIDKey = "userID"

// UseToken requires "Authorization: Bearer <jwt>" and stores the subject as
// the authenticated user id. Every verification failure answers 401.
func UseToken(verifier service.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return response.Error(c, fiber.StatusUnauthorized, "No token provided")
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid token format")
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			logger.SecurityLogger.Warn("Rejected token",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return response.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		userID, err := claims.UserID()
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id stored by UseToken, or 0 outside an authenticated
// route.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}
