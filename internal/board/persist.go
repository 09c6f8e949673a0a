package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// Load creates the store for name and fills it from its backing file. A
// missing file yields an empty board. An unreadable file is copied aside to
// a timestamped backup and the board starts empty; Load itself never fails.
func Load(name string, cfg types.Config, opts ...Option) *Store {
	s := newStore(name, cfg, opts...)
	s.load()
	return s
}

func (s *Store) load() {
	data, err := s.fs.ReadFile(s.file)
	if err == nil {
		var items types.Board
		if items, err = decodeBoard(data, s.cfg); err == nil {
			s.items = items
			s.logger.Info("disk load", slog.String("board", s.name))
			return
		}
	}

	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("empty board creation", slog.String("board", s.name))
	} else {
		s.logger.Error("empty board creation",
			slog.String("board", s.name),
			slog.String("error", err.Error()),
		)
	}
	s.items = types.Board{}

	if len(data) > 0 {
		s.quarantine(data)
	}
}

// quarantine preserves raw bytes of an unreadable board file.
func (s *Store) quarantine(data []byte) {
	backup := stampedName(s.file, s.clock.Now())
	if err := s.fs.WriteFile(backup, data); err != nil {
		s.logger.Error("corrupted board backup error",
			slog.String("board", s.name),
			slog.String("backup", backup),
			slog.String("error", err.Error()),
		)
		return
	}
	quarantinedTotal.Inc()
	s.logger.Warn("corrupted board backup",
		slog.String("board", s.name),
		slog.String("backup", backup),
	)
}

// decodeBoard parses a board file and validates every item. Entries that
// are neither objects nor null are dropped.
func decodeBoard(data []byte, cfg types.Config) (types.Board, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing board: %w", err)
	}
	if raw == nil {
		return nil, errors.New("parsing board: top-level value is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parsing board: trailing data after object")
	}

	items := make(types.Board, len(raw))
	for id, v := range raw {
		if v == nil {
			items[id] = nil
			continue
		}
		it, ok := types.AsItem(v)
		if !ok {
			continue
		}
		Validate(it, cfg)
		items[id] = it
	}
	return items, nil
}

// encodeBoard serializes the board with sorted keys and no HTML escaping.
func encodeBoard(items types.Board) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Snapshot returns the serialized board as it would be written to disk.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return encodeBoard(s.items)
}

// Flush writes the board to disk now, whether or not it changed, and
// cancels any pending scheduled save. Errors are logged and also returned to
// the caller; the in-memory board is unaffected.
func (s *Store) Flush() error {
	return s.flush(func() bool { return true })
}

// Close cancels pending timers and flushes unsaved changes. After Close,
// mutations still apply in memory but are no longer scheduled for saving.
func (s *Store) Close() error {
	err := s.flush(func() bool { return s.dirty })

	s.mu.Lock()
	s.closed = true
	s.stopTimersLocked()
	s.mu.Unlock()
	return err
}

// flush snapshots the board under s.mu and writes it without holding s.mu.
// should is evaluated under s.mu and may veto the flush.
func (s *Store) flush(should func() bool) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	if !should() {
		s.mu.Unlock()
		return nil
	}
	s.stopTimersLocked()
	s.evictLocked()
	start := s.clock.Now()
	s.lastSave = start
	empty := len(s.items) == 0
	data, err := encodeBoard(s.items)
	s.dirty = false
	s.mu.Unlock()

	if err == nil {
		if empty {
			err = s.removeFile()
		} else {
			err = s.writeFile(data, start)
		}
	} else {
		savesTotal.WithLabelValues(saveError).Inc()
		s.logger.Error("board saving error",
			slog.String("board", s.name),
			slog.String("error", err.Error()),
		)
	}

	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
	}
	return err
}

// removeFile deletes the backing file of an empty board. A file that is
// already gone is not an error.
func (s *Store) removeFile() error {
	err := s.fs.Remove(s.file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		savesTotal.WithLabelValues(saveError).Inc()
		s.logger.Error("board deletion error",
			slog.String("board", s.name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("removing %s: %w", s.file, err)
	}
	savesTotal.WithLabelValues(saveRemoved).Inc()
	s.logger.Info("removed empty board", slog.String("board", s.name))
	return nil
}

// writeFile writes data to a temporary file and renames it over the backing
// file, so the backing file always holds a complete snapshot. The temporary
// file is removed on failure.
func (s *Store) writeFile(data []byte, start time.Time) error {
	tmp := stampedName(s.file, start)

	err := s.fs.MkdirAll(filepath.Dir(s.file))
	if err == nil {
		err = s.fs.WriteFile(tmp, data)
	}
	if err == nil {
		err = s.fs.Rename(tmp, s.file)
	}
	if err != nil {
		_ = s.fs.Remove(tmp)
		savesTotal.WithLabelValues(saveError).Inc()
		s.logger.Error("board saving error",
			slog.String("board", s.name),
			slog.String("tmp_file", tmp),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("saving %s: %w", s.file, err)
	}

	savesTotal.WithLabelValues(saveOK).Inc()
	saveBytes.Observe(float64(len(data)))
	s.logger.Info("saved board",
		slog.String("board", s.name),
		slog.Int("size", len(data)),
		slog.Int64("delay_ms", s.clock.Now().Sub(start).Milliseconds()),
	)
	return nil
}
