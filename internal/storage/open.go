package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/keep-terminal/internal/config"
)

// Open builds the store selected by cfg.Store and waits for it to answer.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		store := NewRedisStore(cfg.RedisURL, cfg.SnapshotTTL, logger)
		if err := store.WaitForConnection(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case config.StoreSQLite:
		store, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case config.StoreMemory:
		logger.Warn("Using in-memory store; sessions will not survive a restart")
		return NewMockStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}
