// SPDX-License-Identifier: EPL-2.0

// Package limiter implements a peak limiter with attack, hold and release
// stages, applied in place to generated blocks.
package limiter

import (
	"fmt"
	"math"

	"github.com/ik5/audgen/audio"
)

// DefaultThreshold is the ceiling used when Config.Threshold is zero.
const DefaultThreshold float32 = 1.0

// Config holds the limiter time constants in seconds. A zero Attack means
// no limiter is built.
type Config struct {
	Attack  float64
	Hold    float64
	Release float64

	// Threshold is the linear peak ceiling.
	Threshold float32
}

// Enabled reports whether the configuration asks for a limiter.
func (c Config) Enabled() bool { return c.Attack > 0 }

func (c Config) Validate() error {
	if c.Attack < 0 || c.Hold < 0 || c.Release < 0 {
		return fmt.Errorf("%w: attack=%g hold=%g release=%g",
			ErrNegativeTime, c.Attack, c.Hold, c.Release)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidThreshold, c.Threshold)
	}
	return nil
}

func (c Config) threshold() float32 {
	if c.Threshold == 0 {
		return DefaultThreshold
	}
	return c.Threshold
}

// Limiter tracks a peak envelope across blocks. It is not safe for
// concurrent use.
type Limiter struct {
	cfg         Config
	threshold   float32
	attackCoef  float32
	releaseCoef float32
	holdSamples int

	env      float32
	holdLeft int
}

func New(cfg Config, sampleRate int) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}

	sr := float64(sampleRate)
	l := &Limiter{
		cfg:         cfg,
		threshold:   cfg.threshold(),
		attackCoef:  1,
		holdSamples: int(cfg.Hold * sr),
	}
	if cfg.Attack > 0 {
		l.attackCoef = float32(1 - math.Exp(-1/(cfg.Attack*sr)))
	}
	if cfg.Release > 0 {
		l.releaseCoef = float32(math.Exp(-1 / (cfg.Release * sr)))
	}

	return l, nil
}

func (l *Limiter) Config() Config { return l.cfg }

// Reset clears the envelope.
func (l *Limiter) Reset() {
	l.env = 0
	l.holdLeft = 0
}

// Process limits b in place and reports whether any sample was attenuated.
// Samples whose envelope never exceeds the threshold are left bit-exact.
func (l *Limiter) Process(b *audio.Block) bool {
	if b == nil {
		return false
	}

	reduced := false
	for i, s := range b.Samples {
		x := s
		if x < 0 {
			x = -x
		}

		switch {
		case x > l.env:
			l.env += l.attackCoef * (x - l.env)
			l.holdLeft = l.holdSamples
		case l.holdLeft > 0:
			l.holdLeft--
		default:
			l.env = x + l.releaseCoef*(l.env-x)
		}

		if l.env > l.threshold {
			s *= l.threshold / l.env
			reduced = true
		}

		// The envelope lags a fast attack; the ceiling still holds.
		if s > l.threshold {
			s = l.threshold
			reduced = true
		} else if s < -l.threshold {
			s = -l.threshold
			reduced = true
		}

		b.Samples[i] = s
	}

	return reduced
}

// GainReduction returns the current attenuation in dB (zero or negative).
func (l *Limiter) GainReduction() float64 {
	if l.env <= l.threshold {
		return 0
	}
	return 20 * math.Log10(float64(l.threshold/l.env))
}
