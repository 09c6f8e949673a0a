package board

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boardstore/pkg/types"
)

func newTestRegistry(t *testing.T) (*Registry, types.Config) {
	t.Helper()
	cfg := testConfig(t)
	r, err := NewRegistry(cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, cfg
}

func openNames(r *Registry) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func TestNewRegistry_InvalidConfig(t *testing.T) {
	cfg := types.DefaultConfig("")
	_, err := NewRegistry(cfg)
	assert.ErrorIs(t, err, types.ErrHistoryDirEmpty)
}

func TestRegistry_Open(t *testing.T) {
	r, _ := newTestRegistry(t)

	a1, err := r.Open("alpha")
	require.NoError(t, err)
	a2, err := r.Open("alpha")
	require.NoError(t, err)
	assert.Same(t, a1, a2, "one store per name")

	b, err := r.Open("beta")
	require.NoError(t, err)
	assert.NotSame(t, a1, b)

	a1.Set("x", types.Item{})
	assert.Equal(t, 0, b.Len(), "boards are independent")

	assert.Equal(t, []string{"alpha", "beta"}, openNames(r))

	_, err = r.Open("")
	assert.ErrorIs(t, err, types.ErrBoardNameEmpty)
}

func TestRegistry_EvictFlushesAndReloads(t *testing.T) {
	r, _ := newTestRegistry(t)

	s, err := r.Open("alpha")
	require.NoError(t, err)
	s.Set("x", types.Item{"color": "red"})

	require.NoError(t, r.Evict("alpha"))
	assert.FileExists(t, s.File())
	assert.Empty(t, openNames(r))
	require.NoError(t, r.Evict("alpha"), "evicting an unopened board is a no-op")

	again, err := r.Open("alpha")
	require.NoError(t, err)
	assert.NotSame(t, s, again)
	got, ok := again.Get("x")
	require.True(t, ok)
	assert.Equal(t, "red", got["color"])
}

func TestRegistry_Close(t *testing.T) {
	r, _ := newTestRegistry(t)

	a, err := r.Open("alpha")
	require.NoError(t, err)
	b, err := r.Open("beta")
	require.NoError(t, err)
	a.Set("1", types.Item{})
	b.Set("2", types.Item{})

	require.NoError(t, r.Close())
	assert.FileExists(t, a.File())
	assert.FileExists(t, b.File())

	require.NoError(t, r.Close(), "Close is idempotent")
	_, err = r.Open("alpha")
	assert.ErrorIs(t, err, types.ErrRegistryClosed)
}

// gatedFS blocks reads of one path until release is closed and counts every
// read.
type gatedFS struct {
	OSFS
	path    string
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	reads map[string]int
}

func (f *gatedFS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	f.reads[path]++
	first := f.reads[path] == 1
	f.mu.Unlock()

	if path == f.path && first {
		close(f.entered)
		<-f.release
	}
	return f.OSFS.ReadFile(path)
}

func (f *gatedFS) readCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[path]
}

func TestRegistry_SlowLoadDoesNotBlockOtherBoards(t *testing.T) {
	cfg := testConfig(t)
	fsys := &gatedFS{
		path:    BoardFile(cfg.HistoryDir, "slow"),
		entered: make(chan struct{}),
		release: make(chan struct{}),
		reads:   make(map[string]int),
	}
	r, err := NewRegistry(cfg, WithFS(fsys), WithLogger(discardLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	results := make(chan *Store, 2)
	for i := 0; i < 2; i++ {
		go func() {
			s, err := r.Open("slow")
			assert.NoError(t, err)
			results <- s
		}()
	}
	<-fsys.entered

	fast, err := r.Open("fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", fast.Name())

	select {
	case <-results:
		t.Fatal("slow board opened before its load finished")
	case <-time.After(10 * time.Millisecond):
	}

	close(fsys.release)
	first, second := <-results, <-results
	assert.Same(t, first, second, "concurrent opens share one store")
	assert.Equal(t, 1, fsys.readCount(fsys.path), "board is loaded once")
}
