// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync/atomic"

	"github.com/ik5/audgen/audio"
)

// CountingSource is an audio.BlockSource that records how often it was
// initialized and ticked. Sample i of tick n is Value(n, i); the default is
// a ramp that makes every block distinct.
type CountingSource struct {
	Frames  int
	Value   func(tick, i int) float32
	InitErr error

	// OnTick runs inside Tick, before the block is filled, with the
	// zero-based tick index.
	OnTick func(tick int)

	inits atomic.Int64
	ticks atomic.Int64
	block *audio.Block
}

func NewCountingSource(frames int) *CountingSource {
	return &CountingSource{
		Frames: frames,
		Value: func(tick, i int) float32 {
			return float32(tick%1000)/1000 + float32(i)/float32(10*frames)
		},
	}
}

func (s *CountingSource) Init() error {
	s.inits.Add(1)
	if s.InitErr != nil {
		return s.InitErr
	}
	s.block = audio.NewBlock(s.Frames)
	return nil
}

func (s *CountingSource) Tick() *audio.Block {
	tick := int(s.ticks.Add(1) - 1)
	if s.OnTick != nil {
		s.OnTick(tick)
	}
	if s.block == nil {
		s.block = audio.NewBlock(s.Frames)
	}
	for i := range s.block.Samples {
		s.block.Samples[i] = s.Value(tick, i)
	}
	return s.block
}

// Ticks returns the number of Tick calls so far.
func (s *CountingSource) Ticks() int64 { return s.ticks.Load() }

// Inits returns the number of Init calls so far.
func (s *CountingSource) Inits() int64 { return s.inits.Load() }
