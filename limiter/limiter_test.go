// SPDX-License-Identifier: EPL-2.0

package limiter

import (
	"math"
	"testing"

	"github.com/ik5/audgen/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rate = 48000

func sine(frames int, amp float64, phase *float64) *audio.Block {
	b := audio.NewBlock(frames)
	for i := range b.Samples {
		b.Samples[i] = float32(amp * math.Sin(*phase))
		*phase += 2 * math.Pi * 440 / rate
	}
	return b
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero", Config{}, nil},
		{"typical", Config{Attack: 0.001, Hold: 0.01, Release: 0.1}, nil},
		{"negative attack", Config{Attack: -1}, ErrNegativeTime},
		{"negative hold", Config{Attack: 1, Hold: -0.1}, ErrNegativeTime},
		{"negative release", Config{Release: -0.1}, ErrNegativeTime},
		{"threshold above one", Config{Attack: 1, Threshold: 1.5}, ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Hold: 0.1, Release: 0.1}.Enabled())
	assert.True(t, Config{Attack: 0.001}.Enabled())
}

func TestNew_InvalidRate(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Attack: 0.001}, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestProcess_BelowThresholdIsBitExact(t *testing.T) {
	t.Parallel()

	l, err := New(Config{Attack: 0.001, Hold: 0.005, Release: 0.05}, rate)
	require.NoError(t, err)

	phase := 0.0
	for range 20 {
		b := sine(128, 0.8, &phase)
		want := append([]float32(nil), b.Samples...)

		assert.False(t, l.Process(b))
		assert.Equal(t, want, b.Samples)
	}
	assert.Zero(t, l.GainReduction())
}

func TestProcess_HoldsCeiling(t *testing.T) {
	t.Parallel()

	l, err := New(Config{Attack: 0.0005, Hold: 0.002, Release: 0.05, Threshold: 0.5}, rate)
	require.NoError(t, err)

	phase := 0.0
	limited := false
	for range 50 {
		b := sine(128, 2.0, &phase)
		limited = l.Process(b) || limited
		for _, s := range b.Samples {
			require.LessOrEqual(t, s, float32(0.5))
			require.GreaterOrEqual(t, s, float32(-0.5))
		}
	}
	assert.True(t, limited)
	assert.Less(t, l.GainReduction(), 0.0)
}

func TestProcess_ReleasesAfterPeak(t *testing.T) {
	t.Parallel()

	l, err := New(Config{Attack: 0.0001, Release: 0.001}, rate)
	require.NoError(t, err)

	loud := audio.NewBlock(256)
	for i := range loud.Samples {
		loud.Samples[i] = 4
	}
	require.True(t, l.Process(loud))

	// A long quiet stretch lets the envelope fall back under the ceiling.
	quiet := audio.NewBlock(4800)
	for i := range quiet.Samples {
		quiet.Samples[i] = 0.1
	}
	l.Process(quiet)

	assert.InDelta(t, 0.1, quiet.Samples[len(quiet.Samples)-1], 1e-3)
}

func TestReset(t *testing.T) {
	t.Parallel()

	l, err := New(Config{Attack: 0.001, Release: 1}, rate)
	require.NoError(t, err)

	b := audio.NewBlock(64)
	for i := range b.Samples {
		b.Samples[i] = 3
	}
	l.Process(b)
	require.Less(t, l.GainReduction(), 0.0)

	l.Reset()
	assert.Zero(t, l.GainReduction())
	assert.False(t, l.Process(nil))
}

func BenchmarkProcess(b *testing.B) {
	l, err := New(Config{Attack: 0.001, Hold: 0.005, Release: 0.05}, rate)
	require.NoError(b, err)

	phase := 0.0
	blk := sine(audio.DefaultBlockFrames, 1.5, &phase)

	b.ReportAllocs()
	for b.Loop() {
		l.Process(blk)
	}
}
