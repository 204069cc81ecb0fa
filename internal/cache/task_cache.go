// Package cache holds the Redis-backed stores: a per-task read cache and a
// fiber.Storage used by the rate limiters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"todolist-api/internal/models"
	"todolist-api/pkg/logger"
)

// TaskCache caches single tasks by owner and id. Implementations never fail
// the caller: a broken cache behaves like an empty one.
//
// Set stores a freshly written task. Add stores a task read from the
// database and only when no entry exists, so a read that raced with a
// mutation cannot replace what the mutation left behind.
type TaskCache interface {
	Get(ctx context.Context, userID, id int64) (*models.Task, bool)
	Set(ctx context.Context, task *models.Task)
	Add(ctx context.Context, task *models.Task)
	Delete(ctx context.Context, userID, id int64)
}

// MaxFillTTL bounds how long an entry filled by a read may live.
const MaxFillTTL = 30 * time.Second

// TaskKey includes the owner so a lookup with another user's id always misses.
func TaskKey(userID, id int64) string {
	return fmt.Sprintf("task:%d:%d", userID, id)
}

type RedisTaskCache struct {
	client  *redis.Client
	ttl     time.Duration
	fillTTL time.Duration
}

func NewRedisTaskCache(client *redis.Client, ttl time.Duration) *RedisTaskCache {
	fillTTL := MaxFillTTL
	if ttl < fillTTL {
		fillTTL = ttl
	}
	return &RedisTaskCache{client: client, ttl: ttl, fillTTL: fillTTL}
}

// cachedTask keeps the owner, which models.Task hides from JSON.
type cachedTask struct {
	models.Task
	UserID int64 `json:"userId"`
}

func (c *RedisTaskCache) Get(ctx context.Context, userID, id int64) (*models.Task, bool) {
	data, err := c.client.Get(ctx, TaskKey(userID, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.SystemLogger.Warn("Task cache read failed", zap.Int64("task_id", id), zap.Error(err))
		}
		return nil, false
	}
	var ct cachedTask
	if err := json.Unmarshal(data, &ct); err != nil {
		logger.SystemLogger.Warn("Task cache entry corrupt", zap.Int64("task_id", id), zap.Error(err))
		c.Delete(ctx, userID, id)
		return nil, false
	}
	if ct.UserID != userID {
		return nil, false
	}
	task := ct.Task
	task.UserID = ct.UserID
	return &task, true
}

func (c *RedisTaskCache) Set(ctx context.Context, task *models.Task) {
	data, ok := encodeTask(task)
	if !ok {
		return
	}
	if err := c.client.Set(ctx, TaskKey(task.UserID, task.ID), data, c.ttl).Err(); err != nil {
		logger.SystemLogger.Warn("Task cache write failed", zap.Int64("task_id", task.ID), zap.Error(err))
	}
}

func (c *RedisTaskCache) Add(ctx context.Context, task *models.Task) {
	data, ok := encodeTask(task)
	if !ok {
		return
	}
	if err := c.client.SetNX(ctx, TaskKey(task.UserID, task.ID), data, c.fillTTL).Err(); err != nil {
		logger.SystemLogger.Warn("Task cache fill failed", zap.Int64("task_id", task.ID), zap.Error(err))
	}
}

func encodeTask(task *models.Task) ([]byte, bool) {
	data, err := json.Marshal(cachedTask{Task: *task, UserID: task.UserID})
	if err != nil {
		logger.SystemLogger.Warn("Task cache encode failed", zap.Int64("task_id", task.ID), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (c *RedisTaskCache) Delete(ctx context.Context, userID, id int64) {
	if err := c.client.Del(ctx, TaskKey(userID, id)).Err(); err != nil {
		logger.SystemLogger.Warn("Task cache delete failed", zap.Int64("task_id", id), zap.Error(err))
	}
}

// NopTaskCache is used when Redis is not configured.
type NopTaskCache struct{}

func (NopTaskCache) Get(context.Context, int64, int64) (*models.Task, bool) { return nil, false }
func (NopTaskCache) Set(context.Context, *models.Task)                      {}
func (NopTaskCache) Add(context.Context, *models.Task)                      {}
func (NopTaskCache) Delete(context.Context, int64, int64)                   {}

var (
	_ TaskCache = (*RedisTaskCache)(nil)
	_ TaskCache = NopTaskCache{}
)
