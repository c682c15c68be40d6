package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/keep-terminal/internal/config"
	"github.com/jwebster45206/keep-terminal/pkg/actor"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/dice"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession(t *testing.T) *state.SessionState {
	t.Helper()
	reg, err := scenario.Builtin()
	require.NoError(t, err)
	scn, err := reg.Get(scenario.DefaultID)
	require.NoError(t, err)

	s := state.NewSessionState(scn, testNow)
	s.Party = actor.NewFactory(dice.Constant(3)).GenerateParty(actor.DefaultPartyNames)
	s.SetActive(s.Party[0].ID)
	s.AppendMessage(chat.KindPlayer, "search the wall", testNow.Add(time.Second))
	s.CycleCell(1, 2)
	s.TurnCount = 3
	s.SetupStep = state.StepPlaying
	return s
}

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := NewRedisStore(mr.Addr(), time.Hour, testLogger())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func setupTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func allStores(t *testing.T) map[string]Store {
	redisStore, _ := setupTestRedis(t)
	return map[string]Store{
		"redis":  redisStore,
		"sqlite": setupTestSQLite(t),
		"mock":   NewMockStore(),
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for name, store := range allStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := testSession(t)

			require.NoError(t, store.Ping(ctx))
			require.NoError(t, store.SaveSession(ctx, s))

			loaded, err := store.LoadSession(ctx, s.ID)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, s, loaded)
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, store := range allStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := testSession(t)
			require.NoError(t, store.SaveSession(ctx, s))

			s.TurnCount = 9
			s.Visit("Cave A: Kobold Lair")
			require.NoError(t, store.SaveSession(ctx, s))

			loaded, err := store.LoadSession(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, 9, loaded.TurnCount)
			assert.Equal(t, "Cave A: Kobold Lair", loaded.Location)
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for name, store := range allStores(t) {
		t.Run(name, func(t *testing.T) {
			loaded, err := store.LoadSession(context.Background(), "nope")
			assert.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestStore_DeleteKeepsStartedFlag(t *testing.T) {
	for name, store := range allStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := testSession(t)
			require.NoError(t, store.SaveSession(ctx, s))
			require.NoError(t, store.SetStarted(ctx, s.ID, true))

			require.NoError(t, store.DeleteSession(ctx, s.ID))

			loaded, err := store.LoadSession(ctx, s.ID)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			started, err := store.IsStarted(ctx, s.ID)
			require.NoError(t, err)
			assert.True(t, started)

			require.NoError(t, store.DeleteSession(ctx, s.ID), "deleting twice is fine")
		})
	}
}

func TestStore_StartedFlag(t *testing.T) {
	for name, store := range allStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			started, err := store.IsStarted(ctx, "abc")
			require.NoError(t, err)
			assert.False(t, started)

			require.NoError(t, store.SetStarted(ctx, "abc", true))
			started, err = store.IsStarted(ctx, "abc")
			require.NoError(t, err)
			assert.True(t, started)

			require.NoError(t, store.SetStarted(ctx, "abc", false))
			started, err = store.IsStarted(ctx, "abc")
			require.NoError(t, err)
			assert.False(t, started)
		})
	}
}

func TestRedisStore_Keys(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	s := testSession(t)

	require.NoError(t, store.SaveSession(ctx, s))
	require.NoError(t, store.SetStarted(ctx, s.ID, true))

	assert.True(t, mr.Exists("session:"+s.ID))
	assert.True(t, mr.Exists("session:"+s.ID+":started"))
	assert.Equal(t, time.Hour, mr.TTL("session:"+s.ID))

	mr.FastForward(2 * time.Hour)
	loaded, err := store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "snapshot expired")
}

func TestRedisStore_Corrupt(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(SessionKey("bad"), "{not json"))

	loaded, err := store.LoadSession(context.Background(), "bad")
	assert.Nil(t, loaded)
	assert.True(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestRedisStore_Unreachable(t *testing.T) {
	store := NewRedisStore("127.0.0.1:1", 0, testLogger())
	defer store.Close()

	ctx := context.Background()
	assert.Error(t, store.Ping(ctx))
	_, err := store.LoadSession(ctx, "x")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestSQLiteStore_Corrupt(t *testing.T) {
	store := setupTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, store.put(ctx, SessionKey("bad"), []byte(`{"currentModuleId":""}`)))

	loaded, err := store.LoadSession(ctx, "bad")
	assert.Nil(t, loaded)
	assert.True(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()
	s := testSession(t)

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.SaveSession(ctx, s))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestMockStore_Errors(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()
	s := testSession(t)

	store.SetSaveError(errors.New("disk full"))
	assert.Error(t, store.SaveSession(ctx, s))
	assert.Equal(t, 0, store.Saves())

	store.SetSaveError(nil)
	require.NoError(t, store.SaveSession(ctx, s))
	assert.Equal(t, 1, store.Saves())

	store.SetPingError(errors.New("down"))
	assert.Error(t, store.Ping(ctx))

	store.PutRaw("junk", []byte("???"))
	_, err := store.LoadSession(ctx, "junk")
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	tests := []struct {
		name string
		cfg  config.Config
		want Store
	}{
		{"redis", config.Config{Store: config.StoreRedis, RedisURL: mr.Addr()}, &RedisStore{}},
		{"sqlite", config.Config{Store: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "k.db")}, &SQLiteStore{}},
		{"memory", config.Config{Store: config.StoreMemory}, &MockStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, &tt.cfg, testLogger())
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.want, store)
			assert.NoError(t, store.Ping(ctx))
		})
	}

	_, err = Open(ctx, &config.Config{Store: "etcd"}, testLogger())
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Open(cancelled, &config.Config{Store: config.StoreRedis, RedisURL: "127.0.0.1:1"}, testLogger())
	assert.Error(t, err)
}
