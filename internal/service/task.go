package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"todolist-api/internal/models"
	"todolist-api/internal/repository"
	"todolist-api/internal/validation"
)

// TaskService manages the authenticated user's tasks. Every call is scoped to
// userID; tasks of other users behave as if they did not exist.
type TaskService interface {
	ListTasks(ctx context.Context, userID int64, filter string) ([]models.Task, error)
	GetTask(ctx context.Context, id, userID int64) (*models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput, userID int64) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate, userID int64) (*models.Task, error)
	// DeleteTask reports whether an owned task was removed.
	DeleteTask(ctx context.Context, id, userID int64) (bool, error)
	ToggleTask(ctx context.Context, id, userID int64) (*models.Task, error)
	GetStatistics(ctx context.Context, userID int64) (models.TaskStatistics, error)
}

type taskService struct {
	tasks    repository.TaskRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{
		tasks:    tasks,
		validate: validation.New(),
		now:      time.Now,
	}
}

// clock returns UTC at the precision postgres stores.
func (s *taskService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *taskService) ListTasks(ctx context.Context, userID int64, filter string) ([]models.Task, error) {
	return s.tasks.ListByUser(ctx, userID, models.ParseTaskFilter(filter))
}

func (s *taskService) GetTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) CreateTask(ctx context.Context, in models.TaskInput, userID int64) (*models.Task, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   s.clock(),
		UserID:      userID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate, userID int64) (*models.Task, error) {
	if err := s.check(upd); err != nil {
		return nil, err
	}
	task, err := s.tasks.Update(ctx, id, userID, upd, s.clock())
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id, userID int64) (bool, error) {
	return s.tasks.Delete(ctx, id, userID)
}

func (s *taskService) ToggleTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	task, err := s.tasks.Toggle(ctx, id, userID, s.clock())
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) GetStatistics(ctx context.Context, userID int64) (models.TaskStatistics, error) {
	return s.tasks.Statistics(ctx, userID)
}

func (s *taskService) check(v interface{}) error {
	fields, err := validation.Struct(s.validate, v)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
