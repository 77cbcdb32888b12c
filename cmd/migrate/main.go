package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongoMigration "hotelbook/internal/migrations/mongo"
	"hotelbook/pkg/config"
)

const (
	JobName    = "hotelbook-migrate"
	jobTimeout = 2 * time.Minute
)

// Runs once per deploy, before the booking service starts.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	cfg := config.Load(JobName)
	if !cfg.UsesMongo() {
		cfg.Log.Info("No Mongo-backed component configured, nothing to migrate",
			"store_backend", cfg.StoreBackend,
			"lock_backend", cfg.LockBackend,
		)
		return
	}

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	start := time.Now()
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Error("Migration failed", "database", cfg.MongoDatabaseName, "error", err)
		cfg.GracefulShutdown()
		os.Exit(1)
	}
	cfg.Log.Info("Migration completed",
		"database", cfg.MongoDatabaseName,
		"collections", len(mongoMigration.Collections()),
		"duration", time.Since(start),
	)
}
