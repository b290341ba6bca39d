// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"fmt"
	"io"

	"github.com/ik5/audgen/audio"
	"github.com/jfreymuth/oggvorbis"
)

// floatStream is the part of oggvorbis.Reader we use. Read fills p with
// interleaved samples and returns how many values it wrote.
type floatStream interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

type vorbisSource struct {
	dec floatStream
}

func (s *vorbisSource) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int   { return s.dec.Channels() }
func (s *vorbisSource) Close() error    { return nil }

func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	channels := s.dec.Channels()
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

// Vorbis decodes Ogg Vorbis streams.
type Vorbis struct{}

func (Vorbis) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening ogg vorbis: %w", err)
	}

	return &vorbisSource{dec: dec}, nil
}
