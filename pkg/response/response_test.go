package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestSuccess(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return Success(c, 201, "Created", fiber.Map{"id": 1})
	})
	assert.Equal(t, 201, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(201), body["status"])
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, body["data"])
}

func TestSuccessWithoutData(t *testing.T) {
	_, body := call(t, func(c *fiber.Ctx) error {
		return Success(c, 200, "OK", nil)
	})
	_, ok := body["data"]
	assert.False(t, ok)
}

func TestError(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return Error(c, 404, "Task not found")
	})
	assert.Equal(t, 404, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Task not found", body["message"])
}

func TestValidationFailed(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return ValidationFailed(c, []fiber.Map{{"field": "title", "message": "title is required"}})
	})
	assert.Equal(t, 400, status)
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	assert.Len(t, errs, 1)
}
