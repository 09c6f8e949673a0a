// Package board implements the in-memory whiteboard store: one Store per
// board name holding the board's items, validating every mutation, evicting
// the oldest items past the item ceiling, and persisting the board to a JSON
// file through a debounced, atomic temp-file-then-rename write.
package board

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mesh-intelligence/boardstore/internal/clock"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// Store owns one board's items. All methods are safe for concurrent use.
// Mutations apply in memory and return immediately; persistence happens on
// the scheduler's timer, off the caller's goroutine.
type Store struct {
	name   string
	file   string
	cfg    types.Config
	clock  clock.Clock
	fs     FS
	logger *slog.Logger

	mu       sync.Mutex
	items    types.Board
	dirty    bool
	closed   bool
	gen      uint64      // generation of the armed debounce timer
	timer    clock.Timer // debounce timer
	urgent   clock.Timer // max-delay timer
	lastSave time.Time

	// flushMu serializes flushes so snapshots reach disk in the order they
	// were taken.
	flushMu sync.Mutex
}

var _ types.BoardStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock driving timestamps and the save scheduler.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithFS sets the filesystem used for persistence.
func WithFS(fsys FS) Option {
	return func(s *Store) { s.fs = fsys }
}

// WithLogger sets the structured logger for persistence events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// newStore creates an empty store for name. It does not touch the disk.
func newStore(name string, cfg types.Config, opts ...Option) *Store {
	s := &Store{
		name:   name,
		file:   BoardFile(cfg.HistoryDir, name),
		cfg:    cfg,
		clock:  clock.RealClock{},
		fs:     OSFS{},
		logger: slog.Default(),
		items:  types.Board{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSave = s.clock.Now()
	return s
}

// Name returns the board name.
func (s *Store) Name() string { return s.name }

// File returns the path of the board's backing file.
func (s *Store) File() string { return s.file }

// Len returns the number of entries on the board.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Set stamps item with the current time, validates it and stores it under
// id, replacing any previous entry.
func (s *Store) Set(id string, item types.Item) {
	data := item.Clone()
	if data == nil {
		data = types.Item{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data[types.FieldTime] = s.clock.Now().UnixMilli()
	Validate(data, s.cfg)
	s.items[id] = data
	s.settleLocked()
}

// AddChild appends child to the children of the item under parentID and
// re-validates the parent. Returns false if parentID is not an item.
func (s *Store) AddChild(parentID string, child types.Item) bool {
	c := child.Clone()
	if c == nil {
		c = types.Item{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.items[parentID]
	if !ok || parent == nil {
		return false
	}
	var children []any
	if v, ok := parent[types.FieldChildren]; ok {
		children = childList(v)
	}
	parent[types.FieldChildren] = append(children, c)
	Validate(parent, s.cfg)
	s.settleLocked()
	return true
}

// Update merges patch into the item under id, ignoring the patch's type and
// tool fields. When id is absent the patch becomes a new item only if create
// is set; an id holding a null entry is always replaced. A save is scheduled
// in every case.
func (s *Store) Update(id string, patch types.Item, create bool) {
	p := patch.Clone()
	if p == nil {
		p = types.Item{}
	}
	delete(p, types.FieldType)
	delete(p, types.FieldTool)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, present := s.items[id]
	switch {
	case existing != nil:
		for k, v := range p {
			existing[k] = v
		}
		Validate(existing, s.cfg)
	case create || present:
		Validate(p, s.cfg)
		s.items[id] = p
	}
	s.settleLocked()
}

// Delete removes the entry under id if there is one.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	s.settleLocked()
}

// Get returns a copy of the item under id. A null entry is returned as a nil
// item with ok set.
func (s *Store) Get(id string) (types.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

// GetAll returns copies of all items whose id sorts after sinceID, or all
// items when sinceID is empty. Items are ordered by id.
func (s *Store) GetAll(sinceID string) []types.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		if sinceID == "" || id > sinceID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]types.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Board returns a deep copy of the whole board.
func (s *Store) Board() types.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// settleLocked runs after every mutation: it enforces the item ceiling and
// arms the save scheduler. The caller must hold s.mu.
func (s *Store) settleLocked() {
	s.evictLocked()
	s.scheduleLocked()
}

// evictLocked drops the oldest items past MaxItemCount. The caller must
// hold s.mu.
func (s *Store) evictLocked() {
	removed := evict(s.items, s.cfg.MaxItemCount)
	if len(removed) == 0 {
		return
	}
	evictedItemsTotal.Add(float64(len(removed)))
	s.logger.Info("cleaned board",
		slog.String("board", s.name),
		slog.Int("removed", len(removed)),
	)
}
