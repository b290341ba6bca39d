// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"errors"
	"fmt"

	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/sink"
)

// Generate produces and routes one block on the calling goroutine and
// returns its samples, valid until the next block is produced. A sink
// write error is returned after the callback has run.
func (g *Generator) Generate() ([]float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running.Load() {
		return nil, ErrRunning
	}

	blk := g.src.Tick()
	if err := g.route(blk); err != nil {
		return blk.Samples, err
	}
	return blk.Samples, nil
}

// route limits blk, writes it to an open sink, then hands it to the
// callback.
func (g *Generator) route(blk *audio.Block) error {
	g.stats.blocks.Add(1)

	if g.limiter != nil && g.limiter.Process(blk) {
		g.stats.limited.Add(1)
	}

	var err error
	if g.sink != nil && g.sink.IsOpen() {
		if werr := g.sink.Write(blk.Samples); werr != nil {
			g.stats.sinkErrors.Add(1)
			err = fmt.Errorf("%w: %w", ErrSinkWrite, werr)
		} else {
			g.stats.sinkWrites.Add(1)
		}
	}

	if fn := g.callback.Load(); fn != nil {
		(*fn)(blk.Samples)
		g.stats.callbackCalls.Add(1)
	}

	return err
}

// AutoGenerate tops up a non-blocking sink using its fixed capacity
// estimate. It bypasses both the gate and the limiter.
func (g *Generator) AutoGenerate() error {
	return g.autoGenerate(sink.NonBlocking.FillCapacity)
}

// AdaptiveAutoGenerate is AutoGenerate driven by the sink's adaptive
// capacity estimate.
func (g *Generator) AdaptiveAutoGenerate() error {
	return g.autoGenerate(sink.NonBlocking.AdaptiveFillCapacity)
}

func (g *Generator) autoGenerate(query func(sink.NonBlocking) (int, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running.Load() {
		return ErrRunning
	}

	nb, ok := g.sink.(sink.NonBlocking)
	if !ok {
		return ErrNotNonBlocking
	}

	capacity, err := query(nb)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBufferNotReady, err)
	}
	if capacity <= 0 {
		return nil
	}

	for {
		blk := g.src.Tick()
		err := nb.WriteNonBlocking(blk.Samples)
		switch {
		case err == nil:
			g.stats.autoBlocks.Add(1)
		case errors.Is(err, sink.ErrBufferFull):
			g.stats.autoBlocks.Add(1)
			return nil
		case errors.Is(err, sink.ErrNoRoom):
			// The block was rejected and is not counted.
			return nil
		default:
			g.stats.sinkErrors.Add(1)
			return fmt.Errorf("%w: %w", ErrSinkWrite, err)
		}
	}
}
