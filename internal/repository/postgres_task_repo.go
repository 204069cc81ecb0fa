package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todolist-api/internal/models"
)

const taskColumns = `id, title, description, is_completed, created_at, completed_at, user_id`

type PostgresTaskRepo struct {
	db *sql.DB
}

func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		completedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &t.IsCompleted, &t.CreatedAt, &completedAt, &t.UserID); err != nil {
		return models.Task{}, err
	}
	if description.Valid {
		s := description.String
		t.Description = &s
	}
	if completedAt.Valid {
		ts := completedAt.Time.UTC()
		t.CompletedAt = &ts
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *PostgresTaskRepo) ListByUser(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	switch filter {
	case models.TaskFilterCompleted:
		query += ` AND is_completed`
	case models.TaskFilterPending:
		query += ` AND NOT is_completed`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepo) FindByID(ctx context.Context, id, userID int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return r.one(row, "find")
}

func (r *PostgresTaskRepo) Create(ctx context.Context, task *models.Task) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, is_completed, created_at, completed_at, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		task.Title, task.Description, task.IsCompleted, task.CreatedAt, task.CompletedAt, task.UserID,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Update evaluates the completion transition against the stored row inside
// the UPDATE itself, so flag and timestamp always change together.
func (r *PostgresTaskRepo) Update(ctx context.Context, id, userID int64, upd models.TaskUpdate, now time.Time) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = $1,
		     description = $2,
		     completed_at = CASE
		         WHEN $3 AND NOT is_completed THEN $4::timestamptz
		         WHEN NOT $3 THEN NULL
		         ELSE completed_at
		     END,
		     is_completed = $3
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+taskColumns,
		upd.Title, upd.Description, upd.IsCompleted, now, id, userID)
	return r.one(row, "update")
}

func (r *PostgresTaskRepo) Toggle(ctx context.Context, id, userID int64, now time.Time) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET is_completed = NOT is_completed,
		     completed_at = CASE WHEN is_completed THEN NULL ELSE $1::timestamptz END
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+taskColumns,
		now, id, userID)
	return r.one(row, "toggle")
}

func (r *PostgresTaskRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresTaskRepo) Statistics(ctx context.Context, userID int64) (models.TaskStatistics, error) {
	var stats models.TaskStatistics
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_completed) FROM tasks WHERE user_id = $1`, userID,
	).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return models.TaskStatistics{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (r *PostgresTaskRepo) one(row *sql.Row, op string) (*models.Task, error) {
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s task: %w", op, err)
	}
	return &t, nil
}

var _ TaskRepository = (*PostgresTaskRepo)(nil)
