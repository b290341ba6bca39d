// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// ToneSource produces a continuous sine tone.
type ToneSource struct {
	Frequency float64
	Amplitude float64

	rate   int
	frames int
	phase  float64
	block  *Block
}

func NewToneSource(frequency, amplitude float64, sampleRate, frames int) *ToneSource {
	return &ToneSource{
		Frequency: frequency,
		Amplitude: amplitude,
		rate:      sampleRate,
		frames:    frames,
	}
}

func (t *ToneSource) Init() error {
	if t.rate <= 0 {
		return ErrInvalidRate
	}
	if t.frames <= 0 {
		return ErrInvalidFrames
	}

	t.phase = 0
	t.block = NewBlock(t.frames)
	return nil
}

func (t *ToneSource) Tick() *Block {
	if t.block == nil {
		t.block = NewBlock(t.frames)
	}

	inc := 2 * math.Pi * t.Frequency / float64(t.rate)
	for i := range t.block.Samples {
		t.block.Samples[i] = float32(t.Amplitude * math.Sin(t.phase))
		t.phase += inc
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}

	return t.block
}
