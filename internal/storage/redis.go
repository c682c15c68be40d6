package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/keep-terminal/pkg/state"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis server.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration // 0 keeps keys forever
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store for the server at addr. Snapshots expire
// after ttl when it is positive.
func NewRedisStore(addr string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
		ttl:    ttl,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) SaveSession(ctx context.Context, s *state.SessionState) error {
	data, err := s.Marshal()
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", s.ID, "error", err)
		return err
	}

	if err := r.client.Set(ctx, SessionKey(s.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "session_id", s.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadSession(ctx context.Context, id string) (*state.SessionState, error) {
	data, err := r.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	s, err := state.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return s, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, SessionKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) SetStarted(ctx context.Context, id string, started bool) error {
	var err error
	if started {
		err = r.client.Set(ctx, StartedKey(id), "true", r.ttl).Err()
	} else {
		err = r.client.Del(ctx, StartedKey(id)).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to update started flag: %w", err)
	}
	return nil
}

func (r *RedisStore) IsStarted(ctx context.Context, id string) (bool, error) {
	val, err := r.client.Get(ctx, StartedKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read started flag: %w", err)
	}
	return val == "true", nil
}
