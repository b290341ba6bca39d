// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audgen/audio"
)

// mp3Channels is fixed: go-mp3 always emits interleaved stereo.
const mp3Channels = 2

// byteStream is the part of the go-mp3 decoder we use.
type byteStream interface {
	Read(p []byte) (int, error)
	SampleRate() int
}

type mp3Source struct {
	dec  byteStream
	raw  []byte
	tail int // bytes of a partial sample carried over from the last read
}

func (s *mp3Source) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Source) Channels() int   { return mp3Channels }
func (s *mp3Source) Close() error    { return nil }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.raw) < need {
		raw := make([]byte, need)
		copy(raw, s.raw[:s.tail])
		s.raw = raw
	}
	s.raw = s.raw[:need]

	n, err := s.dec.Read(s.raw[s.tail:])
	n += s.tail

	samples := n / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.raw[2*i:]))
		dst[i] = float32(v) / 32768.0
	}

	s.tail = n % 2
	if s.tail != 0 {
		s.raw[0] = s.raw[n-1]
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("decoding mp3: %w", err)
	}
	if err == io.EOF && samples == 0 {
		return 0, io.EOF
	}
	return samples, err
}

// MP3 decodes MPEG-1/2 Layer III streams.
type MP3 struct{}

func (MP3) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3: %w", err)
	}

	return &mp3Source{dec: dec}, nil
}
