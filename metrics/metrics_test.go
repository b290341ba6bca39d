// SPDX-License-Identifier: EPL-2.0

package metrics

import (
	"strings"
	"testing"

	"github.com/ik5/audgen/generator"
	"github.com/ik5/audgen/internal/audiotest"
	"github.com/ik5/audgen/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGen struct {
	stats   generator.Stats
	running bool
}

func (f *fakeGen) Stats() generator.Stats { return f.stats }
func (f *fakeGen) Running() bool          { return f.running }
func (f *fakeGen) Locked() bool           { return false }

func TestGeneratorMetrics_Collect(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	gen := &fakeGen{
		stats:   generator.Stats{Blocks: 10, Limited: 2, SinkWrites: 9, SinkErrors: 1, CallbackCalls: 10},
		running: true,
	}
	m, err := NewGeneratorMetrics(reg, gen, nil)
	require.NoError(t, err)

	want := `
# HELP audgen_generator_blocks_total Blocks routed by the generator
# TYPE audgen_generator_blocks_total counter
audgen_generator_blocks_total 10
# HELP audgen_generator_limited_blocks_total Blocks attenuated by the limiter
# TYPE audgen_generator_limited_blocks_total counter
audgen_generator_limited_blocks_total 2
# HELP audgen_generator_running Whether the generation loop is running
# TYPE audgen_generator_running gauge
audgen_generator_running 1
# HELP audgen_generator_sink_errors_total Failed sink writes
# TYPE audgen_generator_sink_errors_total counter
audgen_generator_sink_errors_total 1
`
	require.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(want),
		"audgen_generator_blocks_total",
		"audgen_generator_limited_blocks_total",
		"audgen_generator_running",
		"audgen_generator_sink_errors_total",
	))
	assert.Equal(t, 8, testutil.CollectAndCount(m))
}

func TestGeneratorMetrics_DeviceBuffer(t *testing.T) {
	t.Parallel()

	buf, err := sink.NewDeviceBuffer(256, 64, 16)
	require.NoError(t, err)
	defer buf.Close()

	src := audiotest.NewCountingSource(16)
	g, err := generator.New(src, generator.WithSink(buf))
	require.NoError(t, err)
	require.NoError(t, g.Init())
	require.NoError(t, g.AutoGenerate())

	reg := prometheus.NewRegistry()
	m, err := NewGeneratorMetrics(reg, g, buf)
	require.NoError(t, err)

	assert.Equal(t, 11, testutil.CollectAndCount(m))

	want := `
# HELP audgen_device_buffered_samples Samples waiting in the device buffer
# TYPE audgen_device_buffered_samples gauge
audgen_device_buffered_samples 64
# HELP audgen_generator_auto_blocks_total Blocks written by auto-generation
# TYPE audgen_generator_auto_blocks_total counter
audgen_generator_auto_blocks_total 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want),
		"audgen_device_buffered_samples",
		"audgen_generator_auto_blocks_total",
	))
}

func TestGeneratorMetrics_NilDeviceBuffer(t *testing.T) {
	t.Parallel()

	var buf *sink.DeviceBuffer
	reg := prometheus.NewRegistry()
	m, err := NewGeneratorMetrics(reg, &fakeGen{}, buf)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Equal(t, 8, testutil.CollectAndCount(m))
	})
}

func TestNewGeneratorMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewGeneratorMetrics(reg, &fakeGen{}, nil)
	require.NoError(t, err)

	_, err = NewGeneratorMetrics(reg, &fakeGen{}, nil)
	assert.Error(t, err)
}
