// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampOpener(rate, channels, frames int, opened *int) audio.Opener {
	return func() (audio.Source, error) {
		*opened++
		return audiotest.NewMockSource(rate, channels, frames, func(i, _ int) float32 {
			return float32(i+1) / 100
		}), nil
	}
}

func TestStreamSource_InitValidation(t *testing.T) {
	t.Parallel()

	var opened int
	open := rampOpener(8000, 1, 10, &opened)

	tests := []struct {
		name string
		src  *audio.StreamSource
		want error
	}{
		{"nil opener", audio.NewStreamSource(nil, 8000, 4, false), audio.ErrNilOpener},
		{"bad rate", audio.NewStreamSource(open, 0, 4, false), audio.ErrInvalidRate},
		{"bad frames", audio.NewStreamSource(open, 8000, 0, false), audio.ErrInvalidFrames},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.src.Init(), tt.want)
		})
	}
	assert.Zero(t, opened)
}

func TestStreamSource_PadsWithSilence(t *testing.T) {
	t.Parallel()

	var opened int
	s := audio.NewStreamSource(rampOpener(8000, 1, 6, &opened), 8000, 4, false)
	require.NoError(t, s.Init())

	first := s.Tick().Clone()
	assert.Equal(t, []float32{0.01, 0.02, 0.03, 0.04}, first.Samples)
	assert.False(t, s.Done())

	second := s.Tick().Clone()
	assert.Equal(t, []float32{0.05, 0.06, 0, 0}, second.Samples)
	assert.True(t, s.Done())
	assert.NoError(t, s.Err())

	assert.Equal(t, []float32{0, 0, 0, 0}, s.Tick().Samples)
	assert.Equal(t, 1, opened)
}

func TestStreamSource_Loops(t *testing.T) {
	t.Parallel()

	var opened int
	s := audio.NewStreamSource(rampOpener(8000, 1, 3, &opened), 8000, 4, true)
	require.NoError(t, s.Init())

	assert.Equal(t, []float32{0.01, 0.02, 0.03, 0.01}, s.Tick().Clone().Samples)
	assert.Equal(t, []float32{0.02, 0.03, 0.01, 0.02}, s.Tick().Clone().Samples)
	assert.False(t, s.Done())
	assert.GreaterOrEqual(t, opened, 3)
}

func TestStreamSource_LoopingEmptyStreamFails(t *testing.T) {
	t.Parallel()

	var opened int
	open := func() (audio.Source, error) {
		opened++
		return audiotest.NewSilentSource(48000, 1, 0), nil
	}
	s := audio.NewStreamSource(open, 48000, 128, true)
	require.NoError(t, s.Init())

	ticked := make(chan *audio.Block, 1)
	go func() { ticked <- s.Tick() }()

	select {
	case b := <-ticked:
		assert.Equal(t, make([]float32, 128), b.Samples)
	case <-time.After(time.Second):
		t.Fatal("Tick did not return on an empty looping stream")
	}

	assert.True(t, s.Done())
	assert.ErrorIs(t, s.Err(), audio.ErrEmptyStream)
	assert.Equal(t, 1, opened)
	require.NoError(t, s.Close())
}

func TestStreamSource_LoopsShortStreamAcrossReopens(t *testing.T) {
	t.Parallel()

	var opened int
	s := audio.NewStreamSource(rampOpener(8000, 1, 1, &opened), 8000, 4, true)
	require.NoError(t, s.Init())

	assert.Equal(t, []float32{0.01, 0.01, 0.01, 0.01}, s.Tick().Clone().Samples)
	assert.False(t, s.Done())
	assert.NoError(t, s.Err())
}

func TestStreamSource_DownmixesAndResamples(t *testing.T) {
	t.Parallel()

	open := func() (audio.Source, error) {
		return audiotest.NewSineSource(16000, 2, 16000, 100), nil
	}
	s := audio.NewStreamSource(open, 8000, 128, false)
	require.NoError(t, s.Init())

	total := 0
	for !s.Done() {
		b := s.Tick()
		for _, v := range b.Samples {
			require.False(t, math.IsNaN(float64(v)))
		}
		total++
		require.Less(t, total, 200)
	}

	// one second at 8 kHz is 62.5 blocks of 128 frames
	assert.InDelta(t, 63, total, 1)
}

func TestStreamSource_OpenFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := audio.NewStreamSource(func() (audio.Source, error) { return nil, boom }, 8000, 4, false)
	assert.ErrorIs(t, s.Init(), boom)
}

func TestStreamSource_TickBeforeInit(t *testing.T) {
	t.Parallel()

	var opened int
	s := audio.NewStreamSource(rampOpener(8000, 1, 3, &opened), 8000, 4, false)

	b := s.Tick()
	assert.Equal(t, []float32{0, 0, 0, 0}, b.Samples)
	assert.ErrorIs(t, s.Err(), audio.ErrNotInitialized)
}

func TestStreamSource_CloseClosesStream(t *testing.T) {
	t.Parallel()

	mock := audiotest.NewSilentSource(8000, 1, 100)
	s := audio.NewStreamSource(func() (audio.Source, error) { return mock, nil }, 8000, 4, false)
	require.NoError(t, s.Init())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, mock.Closed())
}
