package board

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// Registry hands out one Store per board name. A board is loaded from disk
// on first access and stays in memory until it is evicted or the registry
// is closed.
type Registry struct {
	cfg  types.Config
	opts []Option

	mu      sync.Mutex
	stores  map[string]*Store
	loading map[string]chan struct{} // closed when the load finishes
	closed  bool
}

// NewRegistry validates cfg, creates the history directory if needed and
// returns an empty registry. opts apply to every store it opens.
func NewRegistry(cfg types.Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Registry{
		cfg:     cfg,
		opts:    opts,
		stores:  make(map[string]*Store),
		loading: make(map[string]chan struct{}),
	}, nil
}

// Open returns the store for name, loading it on first access. Loads run
// outside the registry lock; concurrent Opens of the same name wait for a
// single load.
// Returns ErrBoardNameEmpty for an empty name and ErrRegistryClosed after
// Close.
func (r *Registry) Open(name string) (*Store, error) {
	if name == "" {
		return nil, types.ErrBoardNameEmpty
	}

	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return nil, types.ErrRegistryClosed
		}
		if s, ok := r.stores[name]; ok {
			r.mu.Unlock()
			return s, nil
		}
		if done, ok := r.loading[name]; ok {
			r.mu.Unlock()
			<-done
			continue
		}
		done := make(chan struct{})
		r.loading[name] = done
		r.mu.Unlock()

		s := Load(name, r.cfg, r.opts...)

		r.mu.Lock()
		delete(r.loading, name)
		close(done)
		if r.closed {
			r.mu.Unlock()
			s.Close()
			return nil, types.ErrRegistryClosed
		}
		r.stores[name] = s
		openBoards.Inc()
		r.mu.Unlock()
		return s, nil
	}
}

// Evict flushes and forgets the store for name. Evicting a board that is not
// open is a no-op.
func (r *Registry) Evict(name string) error {
	r.mu.Lock()
	s, ok := r.stores[name]
	if ok {
		delete(r.stores, name)
		openBoards.Dec()
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Close()
}

// namesLocked returns the names of the open boards in sorted order. The
// caller must hold r.mu.
func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close flushes every open store, in board name order, and rejects further
// Opens. Idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	names := r.namesLocked()
	stores := r.stores
	r.stores = make(map[string]*Store)
	openBoards.Sub(float64(len(stores)))
	r.mu.Unlock()

	var errs []error
	for _, name := range names {
		if err := stores[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("board %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
