// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audgen/utils"
)

// Resampler converts src to a target sample rate using Catmull-Rom
// interpolation over a sliding four-frame window. Channel layout is kept.
// When downsampling, frames pass through a one-pole low-pass first.
type Resampler struct {
	src      Source
	channels int
	outRate  int
	step     float64 // source frames advanced per output frame

	// window[1] and window[2] bracket the current output position;
	// live marks which entries hold real (non-padded) frames.
	window [4][]float32
	live   [4]bool
	frac   float64
	primed bool

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	lowpass  bool
	lpSeeded bool
	lpState  []float32
}

const (
	resamplerChunk = 4096
	lowpassAlpha   = 0.5
)

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		channels: channels,
		outRate:  dstRate,
		step:     step,
		in:       make([]float32, resamplerChunk-resamplerChunk%channels),
		lowpass:  step > 1.0,
		lpState:  make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.outRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// pull copies the next source frame into frame. It reports false once the
// source is exhausted. A read that returns nothing without an error is
// treated as the end of the stream.
func (r *Resampler) pull(frame []float32) (bool, error) {
	if r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos = 0
		r.inLen = n - n%r.channels

		if err == io.EOF || (err == nil && n == 0) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("reading resampler source: %w", err)
		}

		if r.inLen == 0 {
			return false, nil
		}
	}

	copy(frame, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		if !r.lpSeeded {
			// Seed with the first frame to avoid a fade-in.
			copy(r.lpState, frame)
			r.lpSeeded = true
		}
		for c := range frame {
			frame[c] = lowpassAlpha*frame[c] + (1-lowpassAlpha)*r.lpState[c]
			r.lpState[c] = frame[c]
		}
	}

	return true, nil
}

// prime loads the initial window, duplicating the first frame backwards and
// the last available frame forwards.
func (r *Resampler) prime() error {
	ok, err := r.pull(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.window[0], r.window[1])
	r.live[1] = true

	for i := 2; i < 4; i++ {
		ok, err := r.pull(r.window[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
		}
		r.live[i] = ok
	}

	r.primed = true
	return nil
}

func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.live[:], r.live[1:])
	r.window[3] = first

	ok, err := r.pull(r.window[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
	}
	r.live[3] = ok

	return nil
}

// ReadSamples produces interleaved samples at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.frac >= 1.0 {
			r.frac -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.live[1] {
			return written * r.channels, io.EOF
		}

		t := float32(r.frac)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], t)
		}

		written++
		r.frac += r.step
	}

	return written * r.channels, nil
}
