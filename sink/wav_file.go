// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audgen/utils"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

// WAVFile writes mono 16-bit PCM to a WAV stream. The header is completed
// on Close.
type WAVFile struct {
	mu     sync.Mutex
	enc    *wav.Encoder
	buf    *goaudio.IntBuffer
	closer io.Closer
	open   bool
	frames int
}

func NewWAVFile(w io.WriteSeeker, sampleRate int) (*WAVFile, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}

	return &WAVFile{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, 1, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
		open: true,
	}, nil
}

// CreateWAVFile creates (or truncates) path and returns a sink writing to
// it. Close also closes the file.
func CreateWAVFile(path string, sampleRate int) (*WAVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	s, err := NewWAVFile(f, sampleRate)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f

	return s, nil
}

func (s *WAVFile) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *WAVFile) Write(samples []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrClosed
	}

	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = utils.Float32ToPCM(v, wavBitDepth)
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	s.frames += len(samples)

	return nil
}

// Frames returns the number of frames written so far.
func (s *WAVFile) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *WAVFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false

	var errs []error
	if err := s.enc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("finishing wav: %w", err))
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
