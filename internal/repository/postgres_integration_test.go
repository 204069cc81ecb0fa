package repository

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

// startPostgres runs a throwaway postgres container and returns its URL.
// The test is skipped when Docker is not reachable.
func startPostgres(t *testing.T) (*sql.DB, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=todo",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=todolist_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(300)

	databaseURL := fmt.Sprintf("postgres://todo:secret@%s/todolist_test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var db *sql.DB
	err = pool.Retry(func() error {
		var err error
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			return err
		}
		return db.Ping()
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, databaseURL
}

func TestPostgresRepositories(t *testing.T) {
	db, databaseURL := startPostgres(t)
	require.NoError(t, RunMigrations(databaseURL))
	// a second run is a no-op
	require.NoError(t, RunMigrations(databaseURL))

	runRepositoryContract(t, func(t *testing.T) (UserRepository, TaskRepository) {
		_, err := db.Exec(`TRUNCATE tasks, users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return NewPostgresUserRepo(db), NewPostgresTaskRepo(db)
	})

	t.Run("completion check constraint", func(t *testing.T) {
		_, err := db.Exec(`TRUNCATE tasks, users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		u := createUser(t, NewPostgresUserRepo(db), "check@example.com")
		_, err = db.Exec(`INSERT INTO tasks (title, is_completed, user_id) VALUES ('bad', TRUE, $1)`, u.ID)
		require.Error(t, err)
	})

	t.Run("rollback and migrate again", func(t *testing.T) {
		require.NoError(t, RollbackMigrations(databaseURL))
		require.NoError(t, RunMigrations(databaseURL))
		require.NoError(t, DropAllTables(db))
		require.NoError(t, RunMigrations(databaseURL))
	})
}
