package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jwebster45206/keep-terminal/pkg/scenario"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrManagerClosed   = errors.New("session manager closed")
)

// Manager hosts engines for the HTTP API. Each session has its own lock;
// narrator calls run in goroutines and self-advancing combat phases are
// driven by timers, so clients never have to poll to move combat along.
type Manager struct {
	opts   Options
	logger *slog.Logger

	ctx    context.Context // outlives requests; cancelled by Close
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*entry
	closed   bool
}

type entry struct {
	mu     sync.Mutex
	engine *Engine
	timer  *time.Timer
	closed bool
}

// NewManager creates a manager. opts is the template for every session;
// opts.Scenario is the default module and opts.Registry resolves the rest.
func NewManager(opts Options) (*Manager, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:     opts,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*entry),
	}, nil
}

// Scenarios lists the modules a session can be created in, by id.
func (m *Manager) Scenarios() map[string]string {
	if m.opts.Registry == nil {
		return map[string]string{m.opts.Scenario.ID: m.opts.Scenario.Name}
	}
	return m.opts.Registry.List()
}

// Create starts a fresh session in scenarioID (empty means the default).
func (m *Manager) Create(ctx context.Context, scenarioID string) (View, error) {
	opts := m.opts
	if scenarioID != "" && scenarioID != opts.Scenario.ID {
		if opts.Registry == nil {
			return View{}, fmt.Errorf("%w: %s", scenario.ErrNotFound, scenarioID)
		}
		scn, err := opts.Registry.Get(scenarioID)
		if err != nil {
			return View{}, err
		}
		opts.Scenario = scn
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return View{}, ErrManagerClosed
	}

	e, err := Open(ctx, "", opts)
	if err != nil {
		return View{}, fmt.Errorf("failed to create session: %w", err)
	}
	m.sessions[e.State().ID] = &entry{engine: e}
	m.logger.Info("Session created", "session_id", e.State().ID, "module", e.Scenario().ID)
	return e.View(), nil
}

// lookup returns the live entry for id, restoring it from the store when it
// is not in memory. A corrupt snapshot restores as a fresh session under the
// same id; a missing one is ErrSessionNotFound.
func (m *Manager) lookup(ctx context.Context, id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	if e, ok := m.sessions[id]; ok {
		return e, nil
	}

	loaded, err := m.opts.Store.LoadSession(ctx, id)
	if err == nil && loaded == nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		m.logger.Warn("Session snapshot unreadable", "session_id", id, "error", err)
	}

	eng, err := Open(ctx, id, m.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	e := &entry{engine: eng}
	m.sessions[id] = e
	m.scheduleLocked(e)
	return e, nil
}

// with runs fn under the session lock.
func (m *Manager) with(ctx context.Context, id string, fn func(e *entry) error) (View, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return View{}, ErrManagerClosed
	}
	err = fn(e)
	return e.engine.View(), err
}

// Get returns the current view of a session.
func (m *Manager) Get(ctx context.Context, id string) (View, error) {
	return m.with(ctx, id, func(e *entry) error { return nil })
}

// Submit hands a line of input to the session. Narrator work continues in
// the background; the returned view shows the session as busy.
func (m *Manager) Submit(ctx context.Context, id, input string) (View, error) {
	return m.with(ctx, id, func(e *entry) error {
		call, err := e.engine.Submit(ctx, input)
		if err != nil {
			return err
		}
		if call != nil {
			m.run(e, call)
		}
		m.scheduleLocked(e)
		return nil
	})
}

// ClickCell cycles a map cell. ok is false for out-of-range coordinates.
func (m *Manager) ClickCell(ctx context.Context, id string, x, y int) (view View, ok bool, err error) {
	view, err = m.with(ctx, id, func(e *entry) error {
		ok = e.engine.ClickCell(ctx, x, y)
		return nil
	})
	return view, ok, err
}

// Start dismisses the title screen.
func (m *Manager) Start(ctx context.Context, id string) (View, error) {
	return m.with(ctx, id, func(e *entry) error {
		return e.engine.Start(ctx)
	})
}

// Reset starts the session over. In-flight narrator results are discarded.
func (m *Manager) Reset(ctx context.Context, id string) (View, error) {
	return m.with(ctx, id, func(e *entry) error {
		e.stopTimer()
		e.engine.Reset(ctx)
		return nil
	})
}

// run executes call in the background and applies its result under the
// session lock. Callers hold e.mu.
func (m *Manager) run(e *entry, call *Call) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		res := call.Run(m.ctx)

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return
		}
		e.engine.Resolve(m.ctx, res)
		m.scheduleLocked(e)
	}()
}

// scheduleLocked arms the tick timer when the engine has a self-advancing
// phase pending. Callers hold e.mu.
func (m *Manager) scheduleLocked(e *entry) {
	e.stopTimer()
	d, ok := e.engine.NextTick()
	if !ok || e.closed {
		return
	}
	e.timer = time.AfterFunc(d, func() { m.tick(e) })
}

func (m *Manager) tick(e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if call := e.engine.Tick(m.ctx); call != nil {
		m.run(e, call)
	}
	m.scheduleLocked(e)
}

func (e *entry) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Close stops every timer, cancels outstanding narrator calls and waits for
// them to finish. It is safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, e := range m.sessions {
		e.mu.Lock()
		e.closed = true
		e.stopTimer()
		e.mu.Unlock()
	}
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	m.logger.Info("Session manager closed")
}
