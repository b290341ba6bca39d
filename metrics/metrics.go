// SPDX-License-Identifier: EPL-2.0

// Package metrics exposes generator and device buffer counters to
// Prometheus.
package metrics

import (
	"reflect"

	"github.com/ik5/audgen/generator"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audgen"

// GeneratorStats is the part of *generator.Generator the collector reads.
type GeneratorStats interface {
	Stats() generator.Stats
	Running() bool
	Locked() bool
}

// DeviceStats is the part of *sink.DeviceBuffer the collector reads.
type DeviceStats interface {
	Buffered() int
	AdaptiveTarget() int
	Underruns() uint64
}

// GeneratorMetrics reads counters at scrape time; nothing is recorded on
// the audio path.
type GeneratorMetrics struct {
	gen GeneratorStats
	dev DeviceStats

	blocks        *prometheus.Desc
	limited       *prometheus.Desc
	sinkWrites    *prometheus.Desc
	sinkErrors    *prometheus.Desc
	callbackCalls *prometheus.Desc
	autoBlocks    *prometheus.Desc
	running       *prometheus.Desc
	locked        *prometheus.Desc

	buffered       *prometheus.Desc
	adaptiveTarget *prometheus.Desc
	underruns      *prometheus.Desc
}

// NewGeneratorMetrics creates the collector and registers it with reg.
// dev may be nil, including a nil pointer, when the generator does not feed
// a device buffer.
func NewGeneratorMetrics(reg prometheus.Registerer, gen GeneratorStats, dev DeviceStats) (*GeneratorMetrics, error) {
	if isNilPointer(dev) {
		dev = nil
	}

	m := &GeneratorMetrics{
		gen: gen,
		dev: dev,

		blocks:        desc("generator", "blocks_total", "Blocks routed by the generator"),
		limited:       desc("generator", "limited_blocks_total", "Blocks attenuated by the limiter"),
		sinkWrites:    desc("generator", "sink_writes_total", "Successful sink writes"),
		sinkErrors:    desc("generator", "sink_errors_total", "Failed sink writes"),
		callbackCalls: desc("generator", "callback_calls_total", "Output callback invocations"),
		autoBlocks:    desc("generator", "auto_blocks_total", "Blocks written by auto-generation"),
		running:       desc("generator", "running", "Whether the generation loop is running"),
		locked:        desc("generator", "locked", "Whether the caller holds the gate"),

		buffered:       desc("device", "buffered_samples", "Samples waiting in the device buffer"),
		adaptiveTarget: desc("device", "adaptive_target_samples", "Current adaptive fill target"),
		underruns:      desc("device", "underruns_total", "Device reads that ran out of samples"),
	}

	if err := reg.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func isNilPointer(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func desc(subsystem, name, help string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, nil)
}

func (m *GeneratorMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.blocks
	ch <- m.limited
	ch <- m.sinkWrites
	ch <- m.sinkErrors
	ch <- m.callbackCalls
	ch <- m.autoBlocks
	ch <- m.running
	ch <- m.locked

	if m.dev != nil {
		ch <- m.buffered
		ch <- m.adaptiveTarget
		ch <- m.underruns
	}
}

func (m *GeneratorMetrics) Collect(ch chan<- prometheus.Metric) {
	s := m.gen.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(m.blocks, s.Blocks)
	counter(m.limited, s.Limited)
	counter(m.sinkWrites, s.SinkWrites)
	counter(m.sinkErrors, s.SinkErrors)
	counter(m.callbackCalls, s.CallbackCalls)
	counter(m.autoBlocks, s.AutoBlocks)
	gauge(m.running, boolValue(m.gen.Running()))
	gauge(m.locked, boolValue(m.gen.Locked()))

	if m.dev != nil {
		gauge(m.buffered, float64(m.dev.Buffered()))
		gauge(m.adaptiveTarget, float64(m.dev.AdaptiveTarget()))
		counter(m.underruns, m.dev.Underruns())
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
