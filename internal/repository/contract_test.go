package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist-api/internal/models"
)

// storeFactory returns empty repositories for one subtest.
type storeFactory func(t *testing.T) (UserRepository, TaskRepository)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func createUser(t *testing.T, users UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "hash", FullName: "Test User", CreatedAt: baseTime}
	require.NoError(t, users.Create(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func createTask(t *testing.T, tasks TaskRepository, userID int64, title string, createdAt time.Time) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, UserID: userID, CreatedAt: createdAt}
	require.NoError(t, tasks.Create(context.Background(), task))
	require.NotZero(t, task.ID)
	return task
}

func runRepositoryContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("users by email", func(t *testing.T) {
		users, _ := newStore(t)
		u := createUser(t, users, "ana@example.com")

		got, err := users.FindByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		got, err = users.FindByEmail(ctx, "ANA@example.com")
		require.NoError(t, err)
		assert.Nil(t, got, "email lookup is case-sensitive")

		got, err = users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ana@example.com", got.Email)

		n, err := users.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users, _ := newStore(t)
		createUser(t, users, "dup@example.com")
		err := users.Create(ctx, &models.User{Email: "dup@example.com", PasswordHash: "x", FullName: "Other"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("list newest first with filter", func(t *testing.T) {
		users, tasks := newStore(t)
		u := createUser(t, users, "list@example.com")
		other := createUser(t, users, "other@example.com")

		older := createTask(t, tasks, u.ID, "older", baseTime)
		newer := createTask(t, tasks, u.ID, "newer", baseTime.Add(time.Hour))
		createTask(t, tasks, other.ID, "not mine", baseTime.Add(2*time.Hour))

		_, err := tasks.Toggle(ctx, older.ID, u.ID, baseTime.Add(3*time.Hour))
		require.NoError(t, err)

		all, err := tasks.ListByUser(ctx, u.ID, models.TaskFilterAll)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
		assert.Equal(t, older.ID, all[1].ID)

		done, err := tasks.ListByUser(ctx, u.ID, models.TaskFilterCompleted)
		require.NoError(t, err)
		require.Len(t, done, 1)
		assert.Equal(t, older.ID, done[0].ID)

		open, err := tasks.ListByUser(ctx, u.ID, models.TaskFilterPending)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, newer.ID, open[0].ID)

		none, err := tasks.ListByUser(ctx, 999999, models.TaskFilterAll)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("equal timestamps order by id", func(t *testing.T) {
		users, tasks := newStore(t)
		u := createUser(t, users, "tie@example.com")
		a := createTask(t, tasks, u.ID, "a", baseTime)
		b := createTask(t, tasks, u.ID, "b", baseTime)

		list, err := tasks.ListByUser(ctx, u.ID, models.TaskFilterAll)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)
		assert.Equal(t, a.ID, list[1].ID)
	})

	t.Run("ownership looks like absence", func(t *testing.T) {
		users, tasks := newStore(t)
		owner := createUser(t, users, "owner@example.com")
		intruder := createUser(t, users, "intruder@example.com")
		task := createTask(t, tasks, owner.ID, "private", baseTime)

		got, err := tasks.FindByID(ctx, task.ID, intruder.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		updated, err := tasks.Update(ctx, task.ID, intruder.ID, models.TaskUpdate{Title: "hacked", IsCompleted: true}, baseTime)
		require.NoError(t, err)
		assert.Nil(t, updated)

		toggled, err := tasks.Toggle(ctx, task.ID, intruder.ID, baseTime)
		require.NoError(t, err)
		assert.Nil(t, toggled)

		deleted, err := tasks.Delete(ctx, task.ID, intruder.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err = tasks.FindByID(ctx, task.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "private", got.Title)
		assert.False(t, got.IsCompleted)
	})

	t.Run("update completion transitions", func(t *testing.T) {
		users, tasks := newStore(t)
		u := createUser(t, users, "upd@example.com")
		task := createTask(t, tasks, u.ID, "old title", baseTime)

		first := baseTime.Add(time.Hour)
		got, err := tasks.Update(ctx, task.ID, u.ID, models.TaskUpdate{Title: "New title", IsCompleted: true}, first)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "New title", got.Title)
		assert.Nil(t, got.Description)
		assert.True(t, got.IsCompleted)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, first.Equal(*got.CompletedAt))

		desc := "details"
		got, err = tasks.Update(ctx, task.ID, u.ID, models.TaskUpdate{Title: "New title", Description: &desc, IsCompleted: true}, first.Add(time.Hour))
		require.NoError(t, err)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, first.Equal(*got.CompletedAt), "unchanged completion keeps its timestamp")
		require.NotNil(t, got.Description)
		assert.Equal(t, "details", *got.Description)

		got, err = tasks.Update(ctx, task.ID, u.ID, models.TaskUpdate{Title: "New title", IsCompleted: false}, first.Add(2*time.Hour))
		require.NoError(t, err)
		assert.False(t, got.IsCompleted)
		assert.Nil(t, got.CompletedAt)
		assert.Nil(t, got.Description, "description is overwritten unconditionally")
	})

	t.Run("toggle twice restores state", func(t *testing.T) {
		users, tasks := newStore(t)
		u := createUser(t, users, "toggle@example.com")
		task := createTask(t, tasks, u.ID, "Buy milk", baseTime)

		got, err := tasks.Toggle(ctx, task.ID, u.ID, baseTime.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
		require.NotNil(t, got.CompletedAt)

		got, err = tasks.Toggle(ctx, task.ID, u.ID, baseTime.Add(2*time.Minute))
		require.NoError(t, err)
		assert.False(t, got.IsCompleted)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("delete is permanent", func(t *testing.T) {
		users, tasks := newStore(t)
		u := createUser(t, users, "del@example.com")
		task := createTask(t, tasks, u.ID, "temp", baseTime)

		deleted, err := tasks.Delete(ctx, task.ID, u.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = tasks.Delete(ctx, task.ID, u.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err := tasks.FindByID(ctx, task.ID, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("statistics", func(t *testing.T) {
		users, tasks := newStore(t)
		u := createUser(t, users, "stats@example.com")

		stats, err := tasks.Statistics(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatistics{}, stats)

		a := createTask(t, tasks, u.ID, "a", baseTime)
		createTask(t, tasks, u.ID, "b", baseTime)
		createTask(t, tasks, u.ID, "c", baseTime)
		_, err = tasks.Toggle(ctx, a.ID, u.ID, baseTime)
		require.NoError(t, err)

		stats, err = tasks.Statistics(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatistics{Total: 3, Completed: 1, Pending: 2}, stats)
	})

	t.Run("seed demo data once", func(t *testing.T) {
		users, tasks := newStore(t)

		seeded, err := SeedDemoData(ctx, users, tasks, baseTime)
		require.NoError(t, err)
		assert.True(t, seeded)

		seeded, err = SeedDemoData(ctx, users, tasks, baseTime)
		require.NoError(t, err)
		assert.False(t, seeded)

		demo, err := users.FindByEmail(ctx, DemoEmail)
		require.NoError(t, err)
		require.NotNil(t, demo)
		assert.Equal(t, DemoFullName, demo.FullName)

		list, err := tasks.ListByUser(ctx, demo.ID, models.TaskFilterAll)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "Write unit tests", list[0].Title)
		for _, task := range list {
			assert.Equal(t, task.IsCompleted, task.CompletedAt != nil, task.Title)
		}

		stats, err := tasks.Statistics(ctx, demo.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatistics{Total: 3, Completed: 1, Pending: 2}, stats)
	})
}
