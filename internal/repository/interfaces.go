// Package repository persists users and tasks.
package repository

import (
	"context"
	"errors"
	"time"

	"todolist-api/internal/models"
)

// ErrEmailTaken is returned when a user is inserted with an email that
// already exists.
var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	// FindByEmail looks up a user by exact email. Returns nil when absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID returns nil when absent.
	FindByID(ctx context.Context, id int64) (*models.User, error)
	// Create inserts the user and fills in ID and CreatedAt.
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int, error)
}

// TaskRepository methods that address a single task always take both the
// task id and the owner id; a task of another user is indistinguishable from
// a missing one.
type TaskRepository interface {
	// ListByUser returns the user's tasks matching filter, newest first.
	ListByUser(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error)
	// FindByID returns nil when no task with id is owned by userID.
	FindByID(ctx context.Context, id, userID int64) (*models.Task, error)
	// Create inserts the task and fills in ID.
	Create(ctx context.Context, task *models.Task) error
	// Update overwrites title, description and completion state in one write,
	// stamping or clearing CompletedAt on a state change. Returns nil when
	// not found.
	Update(ctx context.Context, id, userID int64, upd models.TaskUpdate, now time.Time) (*models.Task, error)
	// Toggle flips completion in one write. Returns nil when not found.
	Toggle(ctx context.Context, id, userID int64, now time.Time) (*models.Task, error)
	// Delete reports whether an owned task was removed.
	Delete(ctx context.Context, id, userID int64) (bool, error)
	Statistics(ctx context.Context, userID int64) (models.TaskStatistics, error)
}
