// Package response writes the JSON envelope shared by every endpoint:
// {"message", "success", "status", "data" | "errors"}.
package response

import (
	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"message": message,
		"success": true,
		"status":  status,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  status,
	})
}

// ValidationFailed answers 400 with the field-level errors.
func ValidationFailed(c *fiber.Ctx, errs interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation error",
		"success": false,
		"status":  fiber.StatusBadRequest,
		"errors":  errs,
	})
}
