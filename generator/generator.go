// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/limiter"
	"github.com/ik5/audgen/sink"
)

// OutputFunc receives every routed block after limiting. The slice is only
// valid for the duration of the call. It runs on the loop goroutine in
// threaded mode and must not call the generator's control methods.
type OutputFunc func(samples []float32)

// Generator schedules block production from a BlockSource, either on the
// caller's goroutine (Generate) or on its own loop goroutine (Start/Stop).
type Generator struct {
	src        audio.BlockSource
	sink       sink.Sink
	log        *slog.Logger
	sampleRate int

	// mu serializes the control operations.
	mu          sync.Mutex
	limiterCfg  limiter.Config
	limiter     *limiter.Limiter
	initialized bool
	done        chan struct{}

	callback atomic.Pointer[OutputFunc]

	// gate is held by the loop around each Tick and by the caller between
	// Lock and Unlock.
	gate    sync.Mutex
	running atomic.Bool
	locked  atomic.Bool

	stats counters
}

func New(src audio.BlockSource, opts ...Option) (*Generator, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	g := &Generator{
		src:        src,
		log:        slog.New(slog.DiscardHandler),
		sampleRate: DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("module", "generator")

	if err := g.limiterCfg.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// SetLimiter records limiter times in seconds. It takes effect on the next
// Init; an attack of zero means no limiter.
func (g *Generator) SetLimiter(attack, hold, release float64) error {
	cfg := limiter.Config{Attack: attack, Hold: hold, Release: release}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	cfg.Threshold = g.limiterCfg.Threshold
	g.limiterCfg = cfg

	return nil
}

// Init builds the limiter if one is configured, then initializes the block
// source. It must not be called while the loop runs.
func (g *Generator) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running.Load() {
		return ErrRunning
	}

	g.initialized = false
	g.limiter = nil
	if g.limiterCfg.Enabled() {
		lim, err := limiter.New(g.limiterCfg, g.sampleRate)
		if err != nil {
			return fmt.Errorf("building limiter: %w", err)
		}
		g.limiter = lim
	}

	if err := g.src.Init(); err != nil {
		return fmt.Errorf("initializing block source: %w", err)
	}
	g.initialized = true

	g.log.Debug("initialized",
		"limiter", g.limiter != nil,
		"sample_rate", g.sampleRate)

	return nil
}

// SetOutputCallback registers fn, replacing the previous callback. A nil fn
// is rejected and the previous callback stays registered.
func (g *Generator) SetOutputCallback(fn OutputFunc) error {
	if fn == nil {
		return ErrNilCallback
	}
	g.callback.Store(&fn)
	return nil
}

// Running reports whether the generation loop is active.
func (g *Generator) Running() bool { return g.running.Load() }

// Locked reports whether the caller holds the gate.
func (g *Generator) Locked() bool { return g.locked.Load() }

func (g *Generator) Stats() Stats { return g.stats.snapshot() }

// Close stops the loop. The sink is left alone.
func (g *Generator) Close() error {
	return g.Stop()
}
