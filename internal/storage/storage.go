package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/keep-terminal/pkg/state"
)

// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

// Store persists session snapshots and the per-session "started" flag.
// The flag lives under its own key so a reset can keep it.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveSession overwrites the snapshot for s.ID.
	SaveSession(ctx context.Context, s *state.SessionState) error
	// LoadSession returns nil, nil when no snapshot exists.
	LoadSession(ctx context.Context, id string) (*state.SessionState, error)
	DeleteSession(ctx context.Context, id string) error

	SetStarted(ctx context.Context, id string, started bool) error
	IsStarted(ctx context.Context, id string) (bool, error)
}

// SessionKey is the key holding a session snapshot.
func SessionKey(id string) string {
	return "session:" + id
}

// StartedKey is the key holding a session's started flag.
func StartedKey(id string) string {
	return "session:" + id + ":started"
}
