package service

import (
	"errors"
	"strings"

	"todolist-api/internal/validation"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTaskNotFound is returned for a missing task and for a task owned by
	// someone else.
	ErrTaskNotFound = errors.New("task not found")

	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError lists the fields that failed validation. Nothing was
// persisted.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
