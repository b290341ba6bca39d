// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"log/slog"

	"github.com/ik5/audgen/limiter"
	"github.com/ik5/audgen/sink"
)

// DefaultSampleRate is used to size the limiter when WithSampleRate is
// not given.
const DefaultSampleRate = 48000

type Option func(*Generator)

// WithSink sets the output sink. The generator writes to it but never
// opens or closes it.
func WithSink(s sink.Sink) Option {
	return func(g *Generator) {
		g.sink = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

func WithSampleRate(rate int) Option {
	return func(g *Generator) {
		if rate > 0 {
			g.sampleRate = rate
		}
	}
}

// WithLimiter records a limiter configuration, as SetLimiter does.
func WithLimiter(cfg limiter.Config) Option {
	return func(g *Generator) {
		g.limiterCfg = cfg
	}
}
