// Command migrate applies or rolls back the database schema.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"todolist-api/configs"
	"todolist-api/internal/repository"
	"todolist-api/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	cfg := configs.LoadConfig()
	if err := logger.InitLoggers(logger.StdoutDir); err != nil {
		log.Fatal(err)
	}
	defer logger.SyncLoggers()

	if cfg.DBName == "" {
		logger.ErrorLogger.Fatal("DB_NAME is not set")
	}

	if *down {
		if err := repository.RollbackMigrations(cfg.DatabaseURL()); err != nil {
			logger.ErrorLogger.Fatal("Rollback failed", zap.Error(err))
		}
		logger.SystemLogger.Info("Migrations rolled back")
		return
	}

	if err := repository.RunMigrations(cfg.DatabaseURL()); err != nil {
		logger.ErrorLogger.Fatal("Migration failed", zap.Error(err))
	}
	logger.SystemLogger.Info("Migrations applied")
}
