// Command migrate applies (or rolls back) the catalog's schema. It is the
// external schema-migration tool spec.md §1 names as out of scope for the
// request path, reusing the teacher's own versioned MigrationManager.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shopunit-catalog/internal/config"
	"shopunit-catalog/internal/infrastructure/database"
	pkglogger "shopunit-catalog/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	down := flag.Bool("down", false, "roll back the most recently applied migration instead of applying pending ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	pkglogger.Init(cfg.App.Env, cfg.Log.Level)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	manager := database.NewMigrationManager(db)
	ctx := context.Background()

	if *down {
		if err := manager.Rollback(ctx); err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
		pkglogger.Info("rolled back most recent migration", nil)
		return nil
	}

	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	pkglogger.Info("migrations up to date", nil)
	return nil
}
