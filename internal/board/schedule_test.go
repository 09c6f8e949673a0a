package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boardstore/pkg/types"
)

func TestScheduler_DebounceCoalescesBurst(t *testing.T) {
	cfg := testConfig(t)
	cfg.SaveInterval = 2 * time.Second
	s, clk, fsys := newTestStore(t, cfg)

	s.Set("a", types.Item{})
	clk.Advance(time.Second)
	s.Set("b", types.Item{})
	clk.Advance(1500 * time.Millisecond)
	s.Update("a", types.Item{"x": 3}, false)
	last := clk.Now()

	clk.Advance(2*time.Second - time.Millisecond)
	assert.Empty(t, fsys.writes(), "no flush before the quiet period ends")

	clk.Advance(time.Millisecond)
	writes := fsys.writes()
	require.Len(t, writes, 1)
	assert.True(t, writes[0].Equal(last.Add(2*time.Second)), "flush at %v", writes[0])

	clk.Advance(time.Hour)
	assert.Len(t, fsys.writes(), 1, "a burst produces exactly one flush")
	assert.Equal(t, 0, clk.Pending())
}

func TestScheduler_MaxDelayBoundsStaleness(t *testing.T) {
	cfg := testConfig(t)
	cfg.SaveInterval = 2 * time.Second
	cfg.MaxSaveDelay = 5 * time.Second
	s, clk, fsys := newTestStore(t, cfg)

	for i := 0; i < 10; i++ {
		clk.Advance(time.Second)
		s.Set("a", types.Item{"n": i})
	}

	writes := fsys.writes()
	require.Len(t, writes, 1, "continuous traffic still flushes once max delay passes")
	assert.True(t, writes[0].Equal(testEpoch.Add(6*time.Second)))

	clk.Advance(2 * time.Second)
	writes = fsys.writes()
	require.Len(t, writes, 2)
	assert.True(t, writes[1].Equal(testEpoch.Add(12*time.Second)))
}

func TestScheduler_NoDoubleWriteWhenBothTriggersArmed(t *testing.T) {
	cfg := testConfig(t)
	cfg.SaveInterval = 2 * time.Second
	cfg.MaxSaveDelay = time.Second
	s, clk, fsys := newTestStore(t, cfg)

	clk.Advance(5 * time.Second)
	s.Set("a", types.Item{})
	assert.Equal(t, 2, clk.Pending(), "debounce and max-delay timers armed")

	clk.Advance(10 * time.Second)
	assert.Len(t, fsys.writes(), 1)
}

func TestScheduler_FlushCancelsPendingSave(t *testing.T) {
	s, clk, fsys := newTestStore(t, testConfig(t))

	s.Set("a", types.Item{})
	require.NoError(t, s.Flush())
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Minute)
	assert.Len(t, fsys.writes(), 1)
}

func TestScheduler_CloseFlushesAndStopsTimers(t *testing.T) {
	s, clk, fsys := newTestStore(t, testConfig(t))

	s.Set("a", types.Item{})
	require.NoError(t, s.Close())
	assert.Len(t, fsys.writes(), 1)
	assert.Equal(t, 0, clk.Pending())

	s.Set("b", types.Item{})
	assert.Equal(t, 0, clk.Pending(), "closed store arms no timers")

	require.NoError(t, s.Close())
	assert.Len(t, fsys.writes(), 2, "second Close flushes changes made after the first")
}

func TestScheduler_CloseWithoutChangesDoesNotWrite(t *testing.T) {
	s, _, fsys := newTestStore(t, testConfig(t))

	require.NoError(t, s.Close())
	assert.Empty(t, fsys.writes())
	assert.Zero(t, fsys.removes)
}
