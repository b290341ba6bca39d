// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"errors"

	"github.com/ik5/audgen/audio"
)

// Lock gives the caller exclusive access to the block source's state while
// the loop runs. It waits at most for one Tick to finish. Without a running
// loop it does nothing. The gate is not reentrant.
func (g *Generator) Lock() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running.Load() {
		return nil
	}
	if g.locked.Load() {
		return ErrAlreadyLocked
	}

	g.gate.Lock()
	g.locked.Store(true)

	return nil
}

// Unlock releases the gate taken by Lock. Without a running loop it does
// nothing.
func (g *Generator) Unlock() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running.Load() {
		return nil
	}
	if !g.locked.Load() {
		return ErrNotLocked
	}

	g.locked.Store(false)
	g.gate.Unlock()

	return nil
}

// WithLock runs fn between Lock and Unlock. The gate is released even if fn
// panics. An Unlock error is joined with fn's.
func (g *Generator) WithLock(fn func() error) (err error) {
	if err := g.Lock(); err != nil {
		return err
	}
	defer func() { err = errors.Join(err, g.Unlock()) }()

	return fn()
}

// tickLocked pulls one block with the gate held.
func (g *Generator) tickLocked() *audio.Block {
	g.gate.Lock()
	defer g.gate.Unlock()

	return g.src.Tick()
}
