package scenario

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"sync"
)

//go:embed data/*.json
var builtin embed.FS

// DefaultID is the module loaded when none is configured.
const DefaultID = "b2"

// ErrNotFound is returned for an unknown scenario id.
var ErrNotFound = errors.New("scenario not found")

// Registry holds adventure modules by id.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]*Scenario)}
}

// Builtin returns a registry with the embedded modules loaded.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadFS(builtin, "data", nil); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFS adds every .json scenario under dir. Files that fail to parse or
// validate are skipped and logged; a nil logger discards them.
func (r *Registry) LoadFS(fsys fs.FS, dir string, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			log.Warn("Failed to read scenario file", "path", p, "error", err)
			return nil
		}
		var s Scenario
		if err := json.Unmarshal(data, &s); err != nil {
			log.Warn("Failed to unmarshal scenario file", "path", p, "error", err)
			return nil
		}
		if err := r.Add(&s); err != nil {
			log.Warn("Invalid scenario file", "path", p, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	return nil
}

// Add validates s and stores it, replacing any scenario with the same id.
func (r *Registry) Add(s *Scenario) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.ID] = s
	return nil
}

// Get returns the scenario with the given id.
func (r *Registry) Get(id string) (*Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List maps scenario ids to display names.
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.scenarios))
	for id, s := range r.scenarios {
		out[id] = s.Name
	}
	return out
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.scenarios))
	for id := range r.scenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
