// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer folds a multi-channel Source down to one channel by averaging.
type MonoMixer struct {
	src     Source
	scratch []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("closing mono mixer source: %w", err)
	}
	return nil
}

// ReadSamples fills dst with mono frames; the return value counts frames.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.scratch) < need {
		m.scratch = make([]float32, need)
	}
	m.scratch = m.scratch[:need]

	n, err := m.src.ReadSamples(m.scratch)
	frames := n / channels
	Downmix(dst[:frames], m.scratch[:frames*channels], channels)

	return frames, err
}

// Downmix averages interleaved frames of the given channel count into dst.
// dst must hold len(interleaved)/channels values.
func Downmix(dst, interleaved []float32, channels int) {
	if channels == 2 {
		for f := range dst {
			dst[f] = (interleaved[2*f] + interleaved[2*f+1]) * 0.5
		}
		return
	}

	scale := 1 / float32(channels)
	for f := range dst {
		var sum float32
		for _, v := range interleaved[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum * scale
	}
}
