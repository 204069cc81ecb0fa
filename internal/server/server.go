// Package server builds the fiber application.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	v1 "todolist-api/internal/api/v1"
	"todolist-api/internal/config"
	"todolist-api/internal/metrics"
	"todolist-api/internal/middleware"
	"todolist-api/pkg/response"
)

// New returns the application with global middleware, health, metrics and
// the v1 API mounted.
func New(deps *config.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "todolist-api",
		ErrorHandler: middleware.JSONErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(middleware.Metrics(deps.Metrics))
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", health(deps))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(deps.Registry)))

	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimitMax,
		Expiration: time.Minute,
		Storage:    deps.LimiterStorage("global"),
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "Too many requests")
		},
	}))

	v1.RegisterRoutes(app, deps)
	return app
}

func health(deps *config.Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := fiber.Map{"store": deps.Config.StoreDriver}
		status := fiber.StatusOK

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if deps.DB != nil {
			if err := deps.DB.PingContext(ctx); err != nil {
				checks["database"] = "down"
				status = fiber.StatusServiceUnavailable
			} else {
				checks["database"] = "up"
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = "down"
			} else {
				checks["redis"] = "up"
			}
		}

		if status != fiber.StatusOK {
			return c.Status(status).JSON(fiber.Map{
				"message": "Unhealthy",
				"success": false,
				"status":  status,
				"data":    checks,
			})
		}
		return response.Success(c, status, "OK", checks)
	}
}
