// SPDX-License-Identifier: EPL-2.0

package audgen

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/formats"
	"github.com/ik5/audgen/generator"
	"github.com/ik5/audgen/limiter"
	"github.com/ik5/audgen/sink"
)

var ErrInvalidBlocks = errors.New("block count must be positive")

// RenderWAV generates the given number of blocks from src synchronously and
// writes them to w as 16-bit mono WAV at sampleRate. The limiter is used
// when lim has a non-zero attack. src is initialized by RenderWAV.
func RenderWAV(w io.WriteSeeker, src audio.BlockSource, sampleRate, blocks int, lim limiter.Config) error {
	if blocks <= 0 {
		return ErrInvalidBlocks
	}

	out, err := sink.NewWAVFile(w, sampleRate)
	if err != nil {
		return err
	}

	g, err := generator.New(src,
		generator.WithSink(out),
		generator.WithSampleRate(sampleRate),
		generator.WithLimiter(lim),
	)
	if err != nil {
		return err
	}
	if err := g.Init(); err != nil {
		return err
	}

	for i := range blocks {
		if _, err := g.Generate(); err != nil {
			out.Close()
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return out.Close()
}

// OpenFile returns a block source that decodes path with the registered
// decoders, converting it to mono at sampleRate. Decoding starts at Init.
func OpenFile(path string, sampleRate, frames int, loop bool) *audio.StreamSource {
	return audio.NewStreamSource(formats.Opener(path), sampleRate, frames, loop)
}
