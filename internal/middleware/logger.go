package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"todolist-api/pkg/logger"
	"todolist-api/pkg/response"
)

// ErrorHandler recovers panics, turns returned errors into responses and
// writes one request log entry per call.
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Error("Recovered from panic",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("method", c.Method()),
					zap.String("url", c.OriginalURL()),
					zap.String("stack", string(debug.Stack())),
				)
				err = response.Error(c, fiber.StatusInternalServerError, "Internal server error")
			}
			logger.RequestLogger.Info("Request",
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.IP()),
			)
		}()

		if err := c.Next(); err != nil {
			return c.App().ErrorHandler(c, err)
		}
		return nil
	}
}

// JSONErrorHandler is the app-level fiber error handler. Routing and
// middleware errors keep their status; anything else is a logged 500.
func JSONErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message)
	}
	logger.ErrorLogger.Error("Unhandled error",
		zap.String("method", c.Method()),
		zap.String("url", c.OriginalURL()),
		zap.Error(err),
	)
	return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
}
