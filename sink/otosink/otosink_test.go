// SPDX-License-Identifier: EPL-2.0

package otosink

import (
	"testing"
	"time"

	"github.com/ik5/audgen/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Config{}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, Config{
		SampleRate:     48000,
		BlockFrames:    audio.DefaultBlockFrames,
		CapacityFrames: 4800,
		TargetFrames:   2400,
		DeviceLatency:  20 * time.Millisecond,
	}, cfg)
}

func TestConfig_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Config{CapacityFrames: 100, TargetFrames: 200}.withDefaults()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Config{SampleRate: -1}.withDefaults()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
