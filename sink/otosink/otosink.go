// SPDX-License-Identifier: EPL-2.0

// Package otosink plays generated blocks on the default output device
// through oto. A process can open at most one Speaker.
package otosink

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/sink"
)

const (
	DefaultSampleRate    = 48000
	DefaultDeviceLatency = 20 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid speaker configuration")

// Config sizes the speaker. Zero fields take defaults: 48 kHz, the default
// block size, a 100 ms buffer and a 50 ms fill target.
type Config struct {
	SampleRate     int
	BlockFrames    int
	CapacityFrames int
	TargetFrames   int
	DeviceLatency  time.Duration
}

func (c Config) withDefaults() (Config, error) {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.BlockFrames == 0 {
		c.BlockFrames = audio.DefaultBlockFrames
	}
	if c.CapacityFrames == 0 {
		c.CapacityFrames = c.SampleRate / 10
	}
	if c.TargetFrames == 0 {
		c.TargetFrames = c.CapacityFrames / 2
	}
	if c.DeviceLatency == 0 {
		c.DeviceLatency = DefaultDeviceLatency
	}

	if c.SampleRate < 0 || c.BlockFrames < 0 || c.TargetFrames > c.CapacityFrames {
		return c, fmt.Errorf("%w: %+v", ErrInvalidConfig, c)
	}
	return c, nil
}

// Speaker is a sink.NonBlocking whose buffer is drained by an oto player.
type Speaker struct {
	*sink.DeviceBuffer

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	cfg    Config
}

func New(cfg Config) (*Speaker, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	buf, err := sink.NewDeviceBuffer(cfg.CapacityFrames, cfg.TargetFrames, cfg.BlockFrames)
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.DeviceLatency,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	s := &Speaker{
		DeviceBuffer: buf,
		ctx:          ctx,
		player:       ctx.NewPlayer(buf),
		cfg:          cfg,
	}
	s.player.Play()

	return s, nil
}

func (s *Speaker) SampleRate() int { return s.cfg.SampleRate }

// Close stops playback and fails pending writes. The oto context itself
// stays alive for the rest of the process.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}

	err := s.player.Close()
	s.player = nil

	return errors.Join(err, s.DeviceBuffer.Close())
}
