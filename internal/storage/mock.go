package storage

import (
	"context"
	"sync"

	"github.com/jwebster45206/keep-terminal/pkg/state"
)

// MockStore is an in-memory Store for tests and the "memory" store setting.
// Snapshots are kept encoded so loads never alias saved state.
type MockStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	started   map[string]bool
	saves     int
	pingError error
	saveError error
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates an empty store.
func NewMockStore() *MockStore {
	return &MockStore{
		snapshots: make(map[string][]byte),
		started:   make(map[string]bool),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every SaveSession fail with err. nil restores saving.
func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// PutRaw stores raw bytes as a snapshot, for exercising corrupt data.
func (m *MockStore) PutRaw(id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[id] = append([]byte(nil), data...)
}

// Saves returns how many snapshots have been written.
func (m *MockStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) SaveSession(ctx context.Context, s *state.SessionState) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.snapshots[s.ID] = data
	m.saves++
	return nil
}

func (m *MockStore) LoadSession(ctx context.Context, id string) (*state.SessionState, error) {
	m.mu.RLock()
	data, ok := m.snapshots[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	s, err := state.Unmarshal(data)
	if err != nil {
		return nil, ErrCorruptSnapshot
	}
	return s, nil
}

func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

func (m *MockStore) SetStarted(ctx context.Context, id string, started bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if started {
		m.started[id] = true
	} else {
		delete(m.started, id)
	}
	return nil
}

func (m *MockStore) IsStarted(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started[id], nil
}
