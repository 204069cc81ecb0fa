package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"todolist-api/internal/models"
	"todolist-api/pkg/crypto"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator membaca file migrasi yang di-embed ke dalam binary
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending migration. Being up to date is not an
// error.
func RunMigrations(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RollbackMigrations reverts every applied migration.
func RollbackMigrations(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// DropAllTables removes the schema including the migration history. Used to
// reset test databases.
func DropAllTables(db *sql.DB) error {
	_, err := db.Exec(`
		DROP TABLE IF EXISTS tasks CASCADE;
		DROP TABLE IF EXISTS users CASCADE;
		DROP TABLE IF EXISTS schema_migrations CASCADE;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return nil
}

const (
	DemoEmail    = "admin@todolist.com"
	DemoPassword = "Admin123"
	DemoFullName = "Administrador"
)

// SeedDemoData creates the demo account and three sample tasks when the store
// has no users yet. It reports whether anything was inserted.
func SeedDemoData(ctx context.Context, users UserRepository, tasks TaskRepository, now time.Time) (bool, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	// Hash password
	hash, err := crypto.HashPassword(DemoPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash demo password: %w", err)
	}
	user := &models.User{
		Email:        DemoEmail,
		PasswordHash: hash,
		FullName:     DemoFullName,
		CreatedAt:    now,
	}
	// Insert demo user
	if err := users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create demo user: %w", err)
	}

	// tiga contoh task, yang terbaru ada di urutan paling atas
	day := 24 * time.Hour
	completedAt := now.Add(-day)
	samples := []models.Task{
		{
			Title:       "Finish the API backend",
			Description: strPtr("Implement every required endpoint"),
			IsCompleted: true,
			CreatedAt:   now.Add(-2 * day),
			CompletedAt: &completedAt,
		},
		{
			Title:       "Build the Angular frontend",
			Description: strPtr("Create components and services"),
			CreatedAt:   now.Add(-day),
		},
		{
			Title:       "Write unit tests",
			Description: strPtr("Keep coverage up"),
			CreatedAt:   now,
		},
	}
	for i := range samples {
		samples[i].UserID = user.ID
		if err := tasks.Create(ctx, &samples[i]); err != nil {
			return false, fmt.Errorf("failed to create demo task: %w", err)
		}
	}
	return true, nil
}

func strPtr(s string) *string { return &s }
