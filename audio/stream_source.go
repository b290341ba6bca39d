// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Opener returns a fresh decoded stream. StreamSource calls it on Init and,
// when looping, every time the previous stream ends.
type Opener func() (Source, error)

// StreamSource adapts a decoded Source into fixed-size mono blocks at a
// target rate, resampling and downmixing as needed. After the stream ends it
// either reopens it (loop) or keeps producing silence.
type StreamSource struct {
	open   Opener
	rate   int
	frames int
	loop   bool

	stream Source
	block  *Block
	done   bool
	err    error

	// fresh is set until the current stream yields a sample.
	fresh bool
}

func NewStreamSource(open Opener, sampleRate, frames int, loop bool) *StreamSource {
	return &StreamSource{
		open:   open,
		rate:   sampleRate,
		frames: frames,
		loop:   loop,
	}
}

// Init (re)opens the stream and resets the block buffer.
func (s *StreamSource) Init() error {
	switch {
	case s.open == nil:
		return ErrNilOpener
	case s.rate <= 0:
		return ErrInvalidRate
	case s.frames <= 0:
		return ErrInvalidFrames
	}

	if err := s.closeStream(); err != nil {
		return err
	}

	s.block = NewBlock(s.frames)
	s.done = false
	s.err = nil

	return s.reopen()
}

func (s *StreamSource) reopen() error {
	src, err := s.open()
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}

	var chain Source = src
	if src.SampleRate() != s.rate {
		chain = NewResampler(chain, s.rate)
	}
	if src.Channels() != 1 {
		chain = NewMonoMixer(chain)
	}
	s.stream = chain
	s.fresh = true

	return nil
}

func (s *StreamSource) closeStream() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	if err != nil {
		return fmt.Errorf("closing stream: %w", err)
	}
	return nil
}

// Tick fills the next block. Once the stream is exhausted (and not looping)
// or has failed, blocks are silent; Done and Err report why.
func (s *StreamSource) Tick() *Block {
	if s.block == nil {
		s.block = NewBlock(s.frames)
		s.done = true
		s.err = ErrNotInitialized
	}

	buf := s.block.Samples
	filled := 0

	for filled < len(buf) && !s.done {
		n, err := s.stream.ReadSamples(buf[filled:])
		filled += n
		if n > 0 {
			s.fresh = false
		}

		if err == nil {
			if n == 0 {
				// No progress without EOF: pad this block and retry next tick.
				break
			}
			continue
		}

		if !errors.Is(err, io.EOF) {
			s.fail(err)
			break
		}

		if !s.loop {
			s.done = true
			break
		}
		if s.fresh {
			// Reopening would yield nothing again.
			s.fail(ErrEmptyStream)
			break
		}

		if err := s.closeStream(); err != nil {
			s.fail(err)
			break
		}
		if err := s.reopen(); err != nil {
			s.fail(err)
		}
	}

	clear(buf[filled:])
	return s.block
}

func (s *StreamSource) fail(err error) {
	s.err = err
	s.done = true
}

// Done reports whether the stream has ended for good.
func (s *StreamSource) Done() bool { return s.done }

// Err returns the error that ended the stream, if any.
func (s *StreamSource) Err() error { return s.err }

func (s *StreamSource) Close() error { return s.closeStream() }
