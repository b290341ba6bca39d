// SPDX-License-Identifier: EPL-2.0

package generator_test

import (
	"sync"
	"testing"
	"time"

	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/generator"
	"github.com/ik5/audgen/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = time.Millisecond
)

// slowSource keeps the loop from spinning flat out.
func slowSource() *audiotest.CountingSource {
	src := audiotest.NewCountingSource(frames)
	src.OnTick = func(int) { time.Sleep(50 * time.Microsecond) }
	return src
}

func TestLockUnlock_IdleIsNoop(t *testing.T) {
	t.Parallel()

	g := newInitialized(t, audiotest.NewCountingSource(frames))

	require.NoError(t, g.Lock())
	assert.False(t, g.Locked())
	require.NoError(t, g.Lock())
	require.NoError(t, g.Unlock())
	require.NoError(t, g.Unlock())
	assert.False(t, g.Locked())

	called := false
	require.NoError(t, g.WithLock(func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	g, err := generator.New(slowSource())
	require.NoError(t, err)
	require.ErrorIs(t, g.Start(), generator.ErrNotInitialized)
	require.NoError(t, g.Init())

	require.NoError(t, g.Stop())

	require.NoError(t, g.Start())
	assert.True(t, g.Running())
	require.ErrorIs(t, g.Start(), generator.ErrRunning)
	require.NoError(t, g.Stop())
	assert.False(t, g.Running())

	// A second cycle works the same way.
	require.NoError(t, g.Start())
	require.NoError(t, g.Close())
	assert.False(t, g.Running())
}

func TestLock_Misuse(t *testing.T) {
	t.Parallel()

	g := newInitialized(t, slowSource())
	require.NoError(t, g.Start())

	require.ErrorIs(t, g.Unlock(), generator.ErrNotLocked)
	require.NoError(t, g.Lock())
	assert.True(t, g.Locked())
	require.ErrorIs(t, g.Lock(), generator.ErrAlreadyLocked)
	require.ErrorIs(t, g.Stop(), generator.ErrLocked)
	assert.True(t, g.Running())

	require.NoError(t, g.Unlock())
	assert.False(t, g.Locked())
	require.ErrorIs(t, g.Unlock(), generator.ErrNotLocked)
	require.NoError(t, g.Stop())
}

func TestLock_FreezesSource(t *testing.T) {
	t.Parallel()

	src := slowSource()
	g := newInitialized(t, src)
	require.NoError(t, g.Start())
	defer g.Stop()

	require.Eventually(t, func() bool { return src.Ticks() > 3 }, waitFor, tick)

	require.NoError(t, g.Lock())
	held := src.Ticks()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, held, src.Ticks())
	require.NoError(t, g.Unlock())

	require.Eventually(t, func() bool { return src.Ticks() > held }, waitFor, tick)
}

func TestWithLock_ReleasesOnPanic(t *testing.T) {
	t.Parallel()

	g := newInitialized(t, slowSource())
	require.NoError(t, g.Start())
	defer g.Stop()

	assert.Panics(t, func() {
		_ = g.WithLock(func() error { panic("inside lock") })
	})
	assert.False(t, g.Locked())
}

func TestWithLock_ReportsUnlockError(t *testing.T) {
	t.Parallel()

	g := newInitialized(t, slowSource())
	require.NoError(t, g.Start())
	defer g.Stop()

	err := g.WithLock(func() error {
		require.NoError(t, g.Unlock())
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	require.ErrorIs(t, err, generator.ErrNotLocked)
	assert.False(t, g.Locked())
}

// While the loop is writing a block the gate is free: the caller gets it
// at once, the loop finishes routing and then waits for Unlock.
func TestLock_DuringOutput(t *testing.T) {
	t.Parallel()

	src := audiotest.NewCountingSource(frames)
	rec := audiotest.NewRecordingSink()

	inWrite := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	rec.OnWrite = func([]float32) {
		once.Do(func() {
			close(inWrite)
			<-release
		})
	}

	g := newInitialized(t, src, generator.WithSink(rec))
	require.NoError(t, g.Start())

	<-inWrite
	locked := make(chan error, 1)
	go func() { locked <- g.Lock() }()

	select {
	case err := <-locked:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Lock blocked on output")
	}
	close(release)

	// The first block is routed, the second Tick is held off.
	require.Eventually(t, func() bool { return rec.Writes() == 1 }, waitFor, tick)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), src.Ticks())

	require.NoError(t, g.Unlock())
	require.Eventually(t, func() bool { return src.Ticks() > 1 }, waitFor, tick)
	require.NoError(t, g.Stop())
}

func TestLoop_RoutesEveryBlockInOrder(t *testing.T) {
	t.Parallel()

	src := slowSource()
	rec := audiotest.NewRecordingSink()
	var cb collector

	g := newInitialized(t, src, generator.WithSink(rec))
	require.NoError(t, g.SetOutputCallback(cb.fn))
	require.NoError(t, g.Start())
	require.Eventually(t, func() bool { return cb.len() >= 10 }, waitFor, tick)
	require.NoError(t, g.Stop())

	ticks := int(src.Ticks())
	blocks := rec.Blocks()
	require.Len(t, blocks, ticks)
	assert.Equal(t, ticks, cb.len())
	assert.Equal(t, blocks, cb.first(ticks))

	for n, b := range blocks {
		assert.Equal(t, src.Value(n, 0), b[0], "block %d", n)
	}

	stats := g.Stats()
	assert.Equal(t, uint64(ticks), stats.Blocks)
	assert.Equal(t, uint64(ticks), stats.SinkWrites)
}

func TestLoop_SinkErrorsDoNotStop(t *testing.T) {
	t.Parallel()

	src := slowSource()
	rec := audiotest.NewRecordingSink()
	rec.FailWith(assert.AnError)
	var cb collector

	g := newInitialized(t, src, generator.WithSink(rec))
	require.NoError(t, g.SetOutputCallback(cb.fn))
	require.NoError(t, g.Start())
	require.Eventually(t, func() bool { return cb.len() >= 5 }, waitFor, tick)
	require.NoError(t, g.Stop())

	assert.Equal(t, uint64(src.Ticks()), g.Stats().SinkErrors)
}

func TestControlWhileRunning(t *testing.T) {
	t.Parallel()

	g := newInitialized(t, slowSource(), generator.WithSink(audiotest.NewBudgetSink(frames)))
	require.NoError(t, g.Start())
	defer g.Stop()

	_, err := g.Generate()
	assert.ErrorIs(t, err, generator.ErrRunning)
	assert.ErrorIs(t, g.AutoGenerate(), generator.ErrRunning)
	assert.ErrorIs(t, g.AdaptiveAutoGenerate(), generator.ErrRunning)
	assert.ErrorIs(t, g.Init(), generator.ErrRunning)
}

// Synchronous and threaded generation deliver identical samples for the
// same source and limiter settings.
func TestModeParity(t *testing.T) {
	t.Parallel()

	const blocks = 8
	newGen := func(c *collector) *generator.Generator {
		src := audio.NewToneSource(440, 1.5, 48000, frames)
		g, err := generator.New(src, generator.WithSampleRate(48000))
		require.NoError(t, err)
		require.NoError(t, g.SetLimiter(0.0005, 0.001, 0.02))
		require.NoError(t, g.Init())
		require.NoError(t, g.SetOutputCallback(c.fn))
		return g
	}

	var syncOut, asyncOut collector

	gs := newGen(&syncOut)
	for range blocks {
		_, err := gs.Generate()
		require.NoError(t, err)
	}

	ga := newGen(&asyncOut)
	require.NoError(t, ga.Start())
	require.Eventually(t, func() bool { return asyncOut.len() >= blocks }, waitFor, tick)
	require.NoError(t, ga.Stop())

	assert.Equal(t, syncOut.first(blocks), asyncOut.first(blocks))
	assert.Positive(t, gs.Stats().Limited)
}
