// Package config assembles the application's runtime dependencies from
// configs.Config.
package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"todolist-api/configs"
	"todolist-api/internal/cache"
	"todolist-api/internal/metrics"
	"todolist-api/internal/repository"
	"todolist-api/internal/service"
	"todolist-api/pkg/database"
	"todolist-api/pkg/logger"
)

// Dependencies is built once in main and handed to the router.
type Dependencies struct {
	Config configs.Config

	DB    *sql.DB       // nil with the memory driver
	Redis *redis.Client // nil when Redis is not configured

	Users repository.UserRepository
	Tasks repository.TaskRepository

	Tokens      *service.JWTManager
	AuthService service.AuthService
	TaskService service.TaskService

	Registry *prometheus.Registry
	Metrics  *metrics.Collector
}

// NewDependencies connects the configured store and optional Redis and
// wires the services with their logging, metrics and caching middlewares.
// Redis failures are logged and the API runs without it.
func NewDependencies(ctx context.Context, cfg configs.Config) (*Dependencies, error) {
	d := &Dependencies{Config: cfg}

	switch cfg.StoreDriver {
	case configs.StoreDriverMemory:
		store := repository.NewMemoryStore()
		d.Users, d.Tasks = store.Users(), store.Tasks()
	case configs.StoreDriverPostgres:
		db, err := database.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		d.DB = db
		d.Users = repository.NewPostgresUserRepo(db)
		d.Tasks = repository.NewPostgresTaskRepo(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.RedisEnabled() {
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.SystemLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			d.Redis = client
		}
	}

	d.Registry = prometheus.NewRegistry()
	d.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.Metrics = metrics.NewCollector(d.Registry)

	d.Tokens = service.NewJWTManager(service.TokenConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTExpiration,
	})

	auth, err := service.NewAuthService(d.Users, d.Tokens)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.AuthService = service.AuthLoggingMiddleware(logger.SecurityLogger)(
		service.AuthInstrumentingMiddleware(d.Metrics)(auth),
	)

	d.TaskService = service.ChainTask(service.NewTaskService(d.Tasks),
		service.TaskLoggingMiddleware(logger.AuditLogger),
		service.TaskInstrumentingMiddleware(d.Metrics),
		service.TaskCachingMiddleware(d.TaskCache()),
	)

	return d, nil
}

// TaskCache is Redis-backed when available.
func (d *Dependencies) TaskCache() cache.TaskCache {
	if d.Redis == nil {
		return cache.NopTaskCache{}
	}
	return cache.NewRedisTaskCache(d.Redis, d.Config.TaskCacheTTL)
}

// LimiterStorage returns shared storage for a rate limiter, or nil to let
// fiber keep counters in process memory.
func (d *Dependencies) LimiterStorage(name string) fiber.Storage {
	if d.Redis == nil {
		return nil
	}
	return cache.NewRedisStorage(d.Redis, "limiter:"+name+":")
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		errs = append(errs, d.DB.Close())
	}
	return errors.Join(errs...)
}
