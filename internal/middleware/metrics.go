package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"todolist-api/internal/metrics"
)

// Metrics records count and latency per route template. Register it before
// ErrorHandler so the final status code is known.
func Metrics(rec metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "unmatched"
		}
		rec.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
