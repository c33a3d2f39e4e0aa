package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "complaintctl",
	Short:         "Maintenance commands for the water complaint backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// backend is what every subcommand works against.
type backend struct {
	cfg   *config.Config
	db    *gorm.DB
	redis *redis.Client
	store storage.ComplaintStore
}

func (b *backend) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if sqlDB, err := b.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func openBackend(ctx context.Context) (*backend, error) {
	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	b := &backend{cfg: cfg, db: db}
	b.store = storage.NewGormComplaintStore(db)

	// Writes must go through the cache the server reads from.
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	if rdb != nil {
		b.redis = rdb
		b.store = storage.NewCachedComplaintStore(b.store, rdb, cfg.CacheTTL)
	}
	return b, nil
}

func (b *backend) notifier() *services.NotificationService {
	return services.NewNotificationService(b.db, b.redis)
}

func main() {
	rootCmd.AddCommand(newSeedCmd(), newResetUsersCmd(), newEscalateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
