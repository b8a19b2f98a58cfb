// Command migrate applies the embedded schema migrations to the configured
// PostgreSQL database.
package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/nkarpov/entrypad/internal/config"
	"github.com/nkarpov/entrypad/internal/logging"
	"github.com/nkarpov/entrypad/internal/repositories/repomanager"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewDefault(cfg.LogLevel)
	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "db open failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		logger.Error(ctx, "migration failed", "error", err.Error())
		os.Exit(1)
	}

	logger.Info(ctx, "migrations applied")
}
