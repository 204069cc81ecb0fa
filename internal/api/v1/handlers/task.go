package handlers

import (
	"github.com/gofiber/fiber/v2"

	"todolist-api/internal/middleware"
	"todolist-api/internal/models"
	"todolist-api/internal/service"
	"todolist-api/pkg/response"
)

// Task handlers

// TaskHandler menangani semua endpoint /tasks milik user yang sedang login.
type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// taskID parses the :id parameter. Only positive integers are accepted.
func taskID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

// invalidID mengembalikan 400 untuk id yang bukan bilangan bulat positif
func invalidID(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusBadRequest, "Invalid task ID")
}

// ListTasks answers GET /tasks?filter=completed|pending.
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListTasks(c.UserContext(), middleware.UserID(c), c.Query("filter"))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Tasks fetched successfully", tasks)
}

// GetTask mengambil satu task berdasarkan ID.
// Task milik user lain diperlakukan sama seperti task yang tidak ada.
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return invalidID(c)
	}
	task, err := h.tasks.GetTask(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Task found", task)
}

// CreateTask membuat task baru untuk user yang sedang login
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	// body yang tidak bisa di-parse langsung ditolak dengan 400
	var req models.TaskInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	task, err := h.tasks.CreateTask(c.UserContext(), req, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Task created successfully", task)
}

// UpdateTask replaces title, description and completion in one request.
// A missing description clears it.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return invalidID(c)
	}
	var req models.TaskUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	task, err := h.tasks.UpdateTask(c.UserContext(), id, req, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Task updated successfully", task)
}

// DeleteTask menghapus task secara permanen
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return invalidID(c)
	}
	deleted, err := h.tasks.DeleteTask(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	// tidak ada baris yang terhapus: task tidak ada atau bukan milik user
	if !deleted {
		return writeError(c, service.ErrTaskNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTask membalik status selesai dari task
func (h *TaskHandler) ToggleTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return invalidID(c)
	}
	task, err := h.tasks.ToggleTask(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Task toggled successfully", task)
}

func (h *TaskHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.tasks.GetStatistics(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Statistics fetched successfully", stats)
}
