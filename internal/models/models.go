package models

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Task is a to-do item owned by exactly one user.
// CompletedAt is non-nil if and only if IsCompleted is true.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
	UserID      int64      `json:"-"`
}

// SetCompleted moves the task to the requested completion state. The
// completion time is stamped only on a false->true transition and cleared on
// true->false; an unchanged state keeps the stored timestamp.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	switch {
	case completed && !t.IsCompleted:
		ts := now
		t.CompletedAt = &ts
	case !completed && t.IsCompleted:
		t.CompletedAt = nil
	}
	t.IsCompleted = completed
}

// Toggle flips the completion flag, keeping CompletedAt consistent.
func (t *Task) Toggle(now time.Time) {
	t.SetCompleted(!t.IsCompleted, now)
}

// TaskInput carries the fields accepted when a task is created.
type TaskInput struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// TaskUpdate carries the full replacement state of a task.
type TaskUpdate struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsCompleted bool    `json:"isCompleted"`
}

type TaskStatistics struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type TaskFilter int

const (
	TaskFilterAll TaskFilter = iota
	TaskFilterCompleted
	TaskFilterPending
)

// ParseTaskFilter maps the list filter query value. Only "completed" and
// "pending" (any case) narrow the result; everything else means no filter.
func ParseTaskFilter(s string) TaskFilter {
	switch strings.ToLower(s) {
	case "completed":
		return TaskFilterCompleted
	case "pending":
		return TaskFilterPending
	default:
		return TaskFilterAll
	}
}

func (f TaskFilter) String() string {
	switch f {
	case TaskFilterCompleted:
		return "completed"
	case TaskFilterPending:
		return "pending"
	default:
		return "all"
	}
}

// Matches reports whether a task passes the filter.
func (f TaskFilter) Matches(t Task) bool {
	switch f {
	case TaskFilterCompleted:
		return t.IsCompleted
	case TaskFilterPending:
		return !t.IsCompleted
	default:
		return true
	}
}

type LoginResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Registration struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,notblank,max=100"`
}
