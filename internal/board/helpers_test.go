package board

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mesh-intelligence/boardstore/internal/clock"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

var testEpoch = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

var errInjected = errors.New("injected failure")

// testConfig returns default limits rooted at a fresh temp directory.
func testConfig(t *testing.T) types.Config {
	t.Helper()
	cfg := types.DefaultConfig(t.TempDir())
	cfg.MaxSaveDelay = time.Hour
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingFS wraps OSFS, records when renames happen and fails on demand.
type recordingFS struct {
	OSFS
	clock *clock.FakeClock

	mu        sync.Mutex
	writeErr  error
	renameErr error
	removeErr error
	renames   []time.Time
	removes   int
}

func (f *recordingFS) WriteFile(path string, data []byte) error {
	f.mu.Lock()
	err := f.writeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.OSFS.WriteFile(path, data)
}

func (f *recordingFS) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	err := f.renameErr
	if err == nil {
		f.renames = append(f.renames, f.clock.Now())
	}
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.OSFS.Rename(oldpath, newpath)
}

func (f *recordingFS) Remove(path string) error {
	f.mu.Lock()
	err := f.removeErr
	f.removes++
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.OSFS.Remove(path)
}

func (f *recordingFS) writes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.renames...)
}

// newTestStore loads a store named "test" driven by a fake clock and a
// recording filesystem.
func newTestStore(t *testing.T, cfg types.Config) (*Store, *clock.FakeClock, *recordingFS) {
	t.Helper()
	clk := clock.NewFakeClock(testEpoch)
	fsys := &recordingFS{clock: clk}
	s := Load("test", cfg, WithClock(clk), WithFS(fsys), WithLogger(discardLogger()))
	return s, clk, fsys
}
