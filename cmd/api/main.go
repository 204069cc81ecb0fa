package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"todolist-api/configs"
	"todolist-api/internal/config"
	"todolist-api/internal/repository"
	"todolist-api/internal/server"
	"todolist-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.ErrorLogger.Error("Application stopped", zap.Error(err))
		logger.SyncLoggers()
		log.Fatal(err)
	}
}

func run() error {
	cfg := configs.LoadConfig()

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		return fmt.Errorf("init loggers: %w", err)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application",
		zap.String("store", cfg.StoreDriver),
		zap.Bool("redis", cfg.RedisEnabled()),
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StoreDriver == configs.StoreDriverPostgres {
		if err := repository.RunMigrations(cfg.DatabaseURL()); err != nil {
			return err
		}
		logger.SystemLogger.Info("Database migrated")
	}

	deps, err := config.NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if cfg.SeedDemoData {
		seeded, err := repository.SeedDemoData(ctx, deps.Users, deps.Tasks, time.Now().UTC().Truncate(time.Microsecond))
		if err != nil {
			return err
		}
		if seeded {
			logger.SystemLogger.Info("Demo data created", zap.String("email", repository.DemoEmail))
		}
	}

	app := server.New(deps)

	errCh := make(chan error, 1)
	go func() {
		logger.SystemLogger.Info("Application ready", zap.String("port", cfg.AppPort))
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.SystemLogger.Info("Shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}
