package main

import (
	"fmt"
	"os"

	"github.com/getmentor/registration-api/config"
	"github.com/getmentor/registration-api/pkg/db"
	"github.com/getmentor/registration-api/pkg/logger"
	"go.uber.org/zap"
)

// migrate provisions the registrations collection ahead of a deploy.
// The API also does this on its first successful connect.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Server.AppEnv,
		ServiceName: "registration-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting database migrations")

	if err := db.RunMigrations(cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}
