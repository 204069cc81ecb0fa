package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"todolist-api/internal/repository"
	"todolist-api/internal/service"
	"todolist-api/pkg/logger"
	"todolist-api/pkg/response"
)

// writeError maps service errors to status codes. Unknown errors are logged
// and hidden behind a generic 500.
func writeError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrTaskNotFound):
		return response.Error(c, fiber.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, repository.ErrEmailTaken):
		return response.Error(c, fiber.StatusConflict, "Email already registered")
	}
	logger.ErrorLogger.Error("Request failed",
		zap.String("method", c.Method()),
		zap.String("url", c.OriginalURL()),
		zap.Error(err),
	)
	return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
}

func badRequest(c *fiber.Ctx, err error) error {
	logger.RequestLogger.Info("Bad request", zap.String("url", c.OriginalURL()), zap.Error(err))
	return response.Error(c, fiber.StatusBadRequest, "Bad request")
}
