// SPDX-License-Identifier: EPL-2.0

package audio

// DefaultBlockFrames is the number of mono frames in one generated block.
const DefaultBlockFrames = 128

// Block is one fixed-length unit of mono samples produced by a single Tick.
// A block returned from Tick belongs to its source and is only valid until
// the next Tick on that source.
type Block struct {
	Samples []float32
}

// NewBlock allocates a silent block of the given number of frames.
func NewBlock(frames int) *Block {
	return &Block{Samples: make([]float32, frames)}
}

func (b *Block) Frames() int { return len(b.Samples) }

// Clone returns a copy that outlives the next Tick.
func (b *Block) Clone() *Block {
	return &Block{Samples: append([]float32(nil), b.Samples...)}
}

// BlockSource produces successive blocks of synthesized audio.
//
// Init resets internal state and must succeed before the first Tick.
// Tick computes the next block synchronously and never fails; sources that
// can run dry (decoded files) pad with silence and report problems through
// their own accessors.
type BlockSource interface {
	Init() error
	Tick() *Block
}
