package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"todolist-api/internal/api/v1/handlers"
	"todolist-api/internal/config"
	"todolist-api/internal/middleware"
	"todolist-api/pkg/response"
)

func tooManyRequests(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusTooManyRequests, "Too many requests")
}

func RegisterRoutes(app *fiber.App, deps *config.Dependencies) {
	api := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)

	// Auth
	loginLimiter := limiter.New(limiter.Config{
		Max:          deps.Config.LoginRateLimitMax,
		Expiration:   time.Minute,
		Storage:      deps.LimiterStorage("login"),
		LimitReached: tooManyRequests,
	})
	authRoutes := api.Group("/auth")
	authRoutes.Post("/login", loginLimiter, authHandler.Login)
	authRoutes.Post("/register", loginLimiter, authHandler.Register)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken(deps.Tokens))
	taskRoutes.Get("/", taskHandler.ListTasks)
	taskRoutes.Get("/statistics", taskHandler.GetStatistics)
	taskRoutes.Get("/:id", taskHandler.GetTask)
	taskRoutes.Post("/", taskHandler.CreateTask)
	taskRoutes.Put("/:id", taskHandler.UpdateTask)
	taskRoutes.Delete("/:id", taskHandler.DeleteTask)
	taskRoutes.Patch("/:id/toggle", taskHandler.ToggleTask)
}
