package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist-api/internal/models"
)

// newRedisClient connects to REDIS_ADDR when set, otherwise starts a redis
// container. Skips when neither is available.
func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		t.Cleanup(func() { _ = client.Close() })
		require.NoError(t, client.Ping(context.Background()).Err())
		return client
	}
	if testing.Short() {
		t.Skip("REDIS_ADDR not set; skipping redis test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(120)

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort("6379/tcp")})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	}))
	return client
}

func sampleTask(id, userID int64) *models.Task {
	desc := "from cache"
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &models.Task{ID: id, Title: "Buy milk", Description: &desc, CreatedAt: created, UserID: userID}
}

func TestTaskKey(t *testing.T) {
	assert.Equal(t, "task:7:42", TaskKey(7, 42))
}

func TestNopTaskCache(t *testing.T) {
	var c TaskCache = NopTaskCache{}
	c.Set(context.Background(), sampleTask(1, 1))
	c.Add(context.Background(), sampleTask(1, 1))
	got, ok := c.Get(context.Background(), 1, 1)
	assert.False(t, ok)
	assert.Nil(t, got)
	c.Delete(context.Background(), 1, 1)
}

func TestRedisTaskCache(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	c := NewRedisTaskCache(client, time.Minute)
	userID := time.Now().UnixNano()

	task := sampleTask(42, userID)
	c.Set(ctx, task)

	got, ok := c.Get(ctx, userID, 42)
	require.True(t, ok)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, userID, got.UserID)
	require.NotNil(t, got.Description)
	assert.Equal(t, "from cache", *got.Description)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))

	_, ok = c.Get(ctx, userID+1, 42)
	assert.False(t, ok, "another owner must miss")

	ttl, err := client.TTL(ctx, TaskKey(userID, 42)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	c.Delete(ctx, userID, 42)
	_, ok = c.Get(ctx, userID, 42)
	assert.False(t, ok)
}

func TestRedisTaskCacheAdd(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	c := NewRedisTaskCache(client, time.Hour)
	userID := time.Now().UnixNano()

	c.Add(ctx, sampleTask(7, userID))
	ttl, err := client.TTL(ctx, TaskKey(userID, 7)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, MaxFillTTL, "filled entries are short-lived")

	fresh := sampleTask(7, userID)
	fresh.Title = "fresh"
	fresh.IsCompleted = true
	c.Set(ctx, fresh)

	stale := sampleTask(7, userID)
	c.Add(ctx, stale)
	got, ok := c.Get(ctx, userID, 7)
	require.True(t, ok)
	assert.Equal(t, "fresh", got.Title, "a fill never replaces an existing entry")
	assert.True(t, got.IsCompleted)
}

func TestRedisTaskCacheCorruptEntry(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	c := NewRedisTaskCache(client, time.Minute)
	userID := time.Now().UnixNano()

	require.NoError(t, client.Set(ctx, TaskKey(userID, 1), "not json", time.Minute).Err())
	_, ok := c.Get(ctx, userID, 1)
	assert.False(t, ok)

	n, err := client.Exists(ctx, TaskKey(userID, 1)).Result()
	require.NoError(t, err)
	assert.Zero(t, n, "corrupt entries are evicted")
}

func TestRedisStorage(t *testing.T) {
	client := newRedisClient(t)
	s := NewRedisStorage(client, fmt.Sprintf("test_limiter_%d:", time.Now().UnixNano()))

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("a", []byte("1"), time.Minute))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	val, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	require.NoError(t, s.Delete("a"))
	val, err = s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, client.Set(context.Background(), "unrelated_key_for_storage_test", "x", time.Minute).Err())
	require.NoError(t, s.Reset())
	val, err = s.Get("b")
	require.NoError(t, err)
	assert.Nil(t, val)

	other, err := client.Get(context.Background(), "unrelated_key_for_storage_test").Result()
	require.NoError(t, err)
	assert.Equal(t, "x", other, "reset keeps keys outside the prefix")

	assert.NoError(t, s.Close())
}
