package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"todolist-api/internal/models"
	"todolist-api/internal/service"
	"todolist-api/internal/validation"
	"todolist-api/pkg/response"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthHandler struct {
	auth     service.AuthService
	validate *validator.Validate
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth, validate: validation.New()}
}

// Login exchanges email and password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	fields, err := validation.Struct(h.validate, req)
	if err != nil {
		return badRequest(c, err)
	}
	if len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	res, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Login success", res)
}

// Register creates an account. Validation happens in the service.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.Registration
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"id":       user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
	})
}
