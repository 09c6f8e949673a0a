package board

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boardstore/internal/clock"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFlush_WritesSnapshot(t *testing.T) {
	cfg := testConfig(t)
	s, _, _ := newTestStore(t, cfg)

	s.Set("a", types.Item{"x": 1, "y": 2, "label": "<b>"})
	s.Set("b", types.Item{"size": 3})
	require.NoError(t, s.Flush())

	onDisk, err := os.ReadFile(s.File())
	require.NoError(t, err)
	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snap, onDisk)
	assert.Contains(t, string(onDisk), `"label":"<b>"`)

	assert.Equal(t, []string{filepath.Base(s.File())}, listDir(t, cfg.HistoryDir),
		"no temporary file is left behind")
}

func TestFlush_EmptyBoardRemovesFile(t *testing.T) {
	cfg := testConfig(t)
	s, _, fsys := newTestStore(t, cfg)

	s.Set("a", types.Item{})
	require.NoError(t, s.Flush())
	require.FileExists(t, s.File())
	writesBefore := len(fsys.writes())

	s.Delete("a")
	require.NoError(t, s.Flush())

	assert.NoFileExists(t, s.File())
	assert.Len(t, fsys.writes(), writesBefore, "an empty board performs no write")
	assert.Empty(t, listDir(t, cfg.HistoryDir))

	require.NoError(t, s.Flush(), "removing an already absent file succeeds")
}

func TestFlush_RemoveFailureIsReported(t *testing.T) {
	cfg := testConfig(t)
	s, _, fsys := newTestStore(t, cfg)

	fsys.removeErr = errInjected
	err := s.Flush()
	assert.ErrorIs(t, err, errInjected)
}

func TestFlush_RenameFailureLeavesPriorFile(t *testing.T) {
	cfg := testConfig(t)
	s, clk, fsys := newTestStore(t, cfg)

	s.Set("a", types.Item{"color": "red"})
	require.NoError(t, s.Flush())
	prior, err := os.ReadFile(s.File())
	require.NoError(t, err)

	before := testutil.ToFloat64(savesTotal.WithLabelValues(saveError))

	fsys.renameErr = errInjected
	s.Set("a", types.Item{"color": "blue"})
	err = s.Flush()
	require.ErrorIs(t, err, errInjected)

	after, err := os.ReadFile(s.File())
	require.NoError(t, err)
	assert.Equal(t, prior, after, "prior snapshot unchanged byte for byte")
	assert.Equal(t, []string{filepath.Base(s.File())}, listDir(t, cfg.HistoryDir),
		"temporary file cleaned up")
	assert.Equal(t, before+1, testutil.ToFloat64(savesTotal.WithLabelValues(saveError)))

	got, _ := s.Get("a")
	assert.Equal(t, "blue", got["color"], "memory state survives a failed save")

	clk.Advance(time.Hour)
	assert.Equal(t, 0, clk.Pending(), "failed save is not retried on its own")

	fsys.renameErr = nil
	require.NoError(t, s.Close(), "close retries the unsaved changes")
	after, err = os.ReadFile(s.File())
	require.NoError(t, err)
	assert.Contains(t, string(after), "blue")
}

func TestFlush_WriteFailureLeavesPriorFile(t *testing.T) {
	cfg := testConfig(t)
	s, _, fsys := newTestStore(t, cfg)

	s.Set("a", types.Item{"n": 1})
	require.NoError(t, s.Flush())
	prior, err := os.ReadFile(s.File())
	require.NoError(t, err)

	fsys.writeErr = errInjected
	s.Set("a", types.Item{"n": 2})
	require.ErrorIs(t, s.Flush(), errInjected)

	after, err := os.ReadFile(s.File())
	require.NoError(t, err)
	assert.Equal(t, prior, after)
}

func TestFlush_EvictsBeforeWriting(t *testing.T) {
	cfg := testConfig(t)
	s, _, _ := newTestStore(t, cfg)
	require.NoError(t, os.WriteFile(s.File(), []byte(`{"a":{"time":1},"b":{"time":2},"c":{"time":3}}`), 0o644))

	cfg.MaxItemCount = 2
	s, _, _ = newTestStore(t, cfg)
	assert.Equal(t, 3, s.Len(), "loading does not evict")

	require.NoError(t, s.Flush())
	reloaded, _, _ := newTestStore(t, cfg)
	assert.Equal(t, 2, reloaded.Len())
	_, ok := reloaded.Get("a")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := testConfig(t)
	var logs bytes.Buffer
	clk := clock.NewFakeClock(testEpoch)
	s := Load("fresh", cfg, WithClock(clk), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, listDir(t, cfg.HistoryDir), "no backup for a missing file")
	assert.Contains(t, logs.String(), "empty board creation")
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestLoad_RevalidatesItems(t *testing.T) {
	cfg := testConfig(t)
	raw := `{"a":{"x":-5,"y":"70000","size":"100","opacity":1,"note":"keep"},"skip":7}`
	require.NoError(t, os.WriteFile(BoardFile(cfg.HistoryDir, "test"), []byte(raw), 0o644))

	s, _, _ := newTestStore(t, cfg)

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 0.0, got["x"])
	assert.Equal(t, float64(types.DefaultMaxBoardSize), got["y"])
	assert.Equal(t, types.DefaultMaxItemSize, got["size"])
	assert.NotContains(t, got, "opacity")
	assert.Equal(t, "keep", got["note"])

	_, ok = s.Get("skip")
	assert.False(t, ok, "non-object entries are dropped")
}

func TestLoad_QuarantinesCorruptFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated json", []byte(`{"a":{"x":1},"b":`)},
		{"binary garbage", []byte{0x00, 0xff, 0x10, 'z'}},
		{"top-level array", []byte(`[1,2,3]`)},
		{"top-level null", []byte(`null`)},
		{"trailing data", []byte(`{"a":{}} {"b":{}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			file := BoardFile(cfg.HistoryDir, "test")
			require.NoError(t, os.WriteFile(file, tt.data, 0o644))

			before := testutil.ToFloat64(quarantinedTotal)
			s, clk, _ := newTestStore(t, cfg)

			assert.Equal(t, 0, s.Len())
			backup, err := os.ReadFile(stampedName(file, clk.Now()))
			require.NoError(t, err)
			assert.Equal(t, tt.data, backup, "backup holds the original bytes exactly")
			assert.Equal(t, before+1, testutil.ToFloat64(quarantinedTotal))
		})
	}
}

func TestLoad_QuarantineFailureStillStartsEmpty(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(BoardFile(cfg.HistoryDir, "test"), []byte("{{{"), 0o644))

	clk := clock.NewFakeClock(testEpoch)
	fsys := &recordingFS{clock: clk, writeErr: errInjected}
	s := Load("test", cfg, WithClock(clk), WithFS(fsys), WithLogger(discardLogger()))

	assert.Equal(t, 0, s.Len())
}

func TestLoad_RoundTrip(t *testing.T) {
	cfg := testConfig(t)
	s, _, _ := newTestStore(t, cfg)

	s.Set("line", types.Item{"type": "line", "color": "#123456", "size": 4})
	require.True(t, s.AddChild("line", types.Item{"x": 1.5, "y": 2.5}))
	s.Set("text", types.Item{"type": "text", "x": 100, "y": 50, "opacity": 0.4, "txt": "hello"})
	require.NoError(t, s.Flush())
	want, err := s.Snapshot()
	require.NoError(t, err)

	reloaded, _, _ := newTestStore(t, cfg)
	got, err := reloaded.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}
