// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ik5/audgen"
	"github.com/ik5/audgen/audio"
	"github.com/ik5/audgen/limiter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "AUDGEN"

var errNoSource = errors.New("one of --input or --tone is required")

// settings is the resolved configuration shared by the subcommands.
type settings struct {
	SampleRate  int
	BlockFrames int
	Limiter     limiter.Config

	Input     string
	Loop      bool
	Tone      float64
	Amplitude float64
	Duration  time.Duration
}

type app struct {
	v   *viper.Viper
	log *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:           "audgen",
		Short:         "Generate audio blocks to a file or the speaker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Int("sample-rate", 48000, "output sample rate in Hz")
	pf.Int("block-frames", audio.DefaultBlockFrames, "frames per generated block")
	pf.Float64("attack", 0, "limiter attack in seconds (0 disables the limiter)")
	pf.Float64("hold", 0, "limiter hold in seconds")
	pf.Float64("release", 0, "limiter release in seconds")
	pf.Float32("threshold", limiter.DefaultThreshold, "limiter ceiling (0, 1]")
	pf.String("input", "", "audio file to play (wav, aiff, mp3, ogg)")
	pf.Bool("loop", false, "restart --input when it ends")
	pf.Float64("tone", 0, "sine tone frequency in Hz, used when --input is empty")
	pf.Float64("amplitude", 0.5, "sine tone amplitude")
	pf.Duration("duration", 5*time.Second, "how much audio to generate (0 plays until interrupted)")

	// Binding only fails for a nil flag set.
	_ = a.v.BindPFlags(pf)

	root.AddCommand(a.renderCommand(), a.playCommand())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

func (a *app) resolve() (settings, error) {
	s := settings{
		SampleRate:  a.v.GetInt("sample-rate"),
		BlockFrames: a.v.GetInt("block-frames"),
		Limiter: limiter.Config{
			Attack:    a.v.GetFloat64("attack"),
			Hold:      a.v.GetFloat64("hold"),
			Release:   a.v.GetFloat64("release"),
			Threshold: float32(a.v.GetFloat64("threshold")),
		},
		Input:     a.v.GetString("input"),
		Loop:      a.v.GetBool("loop"),
		Tone:      a.v.GetFloat64("tone"),
		Amplitude: a.v.GetFloat64("amplitude"),
		Duration:  a.v.GetDuration("duration"),
	}

	if s.SampleRate <= 0 || s.BlockFrames <= 0 {
		return s, fmt.Errorf("sample rate and block size must be positive (got %d, %d)",
			s.SampleRate, s.BlockFrames)
	}
	if err := s.Limiter.Validate(); err != nil {
		return s, err
	}
	if s.Input == "" && s.Tone <= 0 {
		return s, errNoSource
	}

	return s, nil
}

// source builds the block source the settings ask for. The returned close
// function releases any open file.
func (s settings) source() (audio.BlockSource, func() error) {
	if s.Input != "" {
		src := audgen.OpenFile(s.Input, s.SampleRate, s.BlockFrames, s.Loop)
		return src, src.Close
	}

	src := audio.NewToneSource(s.Tone, s.Amplitude, s.SampleRate, s.BlockFrames)
	return src, func() error { return nil }
}

// blocks returns how many blocks cover the configured duration, rounding
// up; zero means unbounded.
func (s settings) blocks() int {
	if s.Duration <= 0 {
		return 0
	}
	frames := s.Duration.Seconds() * float64(s.SampleRate)
	return int(math.Ceil(frames / float64(s.BlockFrames)))
}

// blockDuration is the playback time of one block.
func (s settings) blockDuration() time.Duration {
	return time.Duration(float64(s.BlockFrames) / float64(s.SampleRate) * float64(time.Second))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
