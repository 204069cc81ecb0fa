package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"todolist-api/configs"
)

// ConnectRedis returns a client for the configured Redis server. The caller
// decides whether a failed ping is fatal.
func ConnectRedis(ctx context.Context, cfg configs.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr(), err)
	}
	return client, nil
}
