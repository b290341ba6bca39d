// SPDX-License-Identifier: EPL-2.0

package generator

// sinkErrorLogEvery throttles sink write warnings from the loop.
const sinkErrorLogEvery = 64

// Start launches the generation loop. Init must have succeeded first.
func (g *Generator) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.initialized {
		return ErrNotInitialized
	}
	if !g.running.CompareAndSwap(false, true) {
		return ErrRunning
	}

	// Launching a goroutine cannot fail, so the flag is never rolled back.
	g.done = make(chan struct{})
	go g.run(g.done)

	g.log.Info("generation loop started")
	return nil
}

// Stop asks the loop to exit and waits for it. The loop finishes routing
// the block it is working on. Stop must not be called from the output
// callback or while the caller holds the gate.
func (g *Generator) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running.Load() {
		return nil
	}
	if g.locked.Load() {
		return ErrLocked
	}

	g.running.Store(false)
	<-g.done
	g.done = nil

	g.log.Info("generation loop stopped", "blocks", g.stats.blocks.Load())
	return nil
}

func (g *Generator) run(done chan<- struct{}) {
	defer close(done)

	for g.running.Load() {
		blk := g.tickLocked()
		if err := g.route(blk); err != nil {
			if n := g.stats.sinkErrors.Load(); n%sinkErrorLogEvery == 1 {
				g.log.Warn("sink write failed", "error", err, "failures", n)
			}
		}
	}
}
