// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ik5/audgen/generator"
	"github.com/ik5/audgen/metrics"
	"github.com/ik5/audgen/sink/otosink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	modeSync     = "sync"
	modeThreaded = "threaded"
	modeAuto     = "auto"
	modeAdaptive = "adaptive"
)

func (a *app) playCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play generated audio on the default output device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.play(cmd.Context())
		},
	}

	cmd.Flags().String("mode", modeThreaded, "generation mode: sync, threaded, auto or adaptive")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().Int("buffer-frames", 0, "device buffer capacity in frames (0 for 100ms)")
	cmd.Flags().Int("target-frames", 0, "device buffer fill target in frames (0 for half the capacity)")
	_ = a.v.BindPFlags(cmd.Flags())

	return cmd
}

func (a *app) play(ctx context.Context) error {
	s, err := a.resolve()
	if err != nil {
		return err
	}

	mode := a.v.GetString("mode")
	switch mode {
	case modeSync, modeThreaded, modeAuto, modeAdaptive:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if s.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Duration)
		defer cancel()
	}

	src, closeSrc := s.source()
	defer closeSrc()

	spk, err := otosink.New(otosink.Config{
		SampleRate:     s.SampleRate,
		BlockFrames:    s.BlockFrames,
		CapacityFrames: a.v.GetInt("buffer-frames"),
		TargetFrames:   a.v.GetInt("target-frames"),
	})
	if err != nil {
		return err
	}
	defer spk.Close()

	g, err := generator.New(src,
		generator.WithSink(spk),
		generator.WithLogger(a.log),
		generator.WithSampleRate(s.SampleRate),
		generator.WithLimiter(s.Limiter),
	)
	if err != nil {
		return err
	}
	if err := g.Init(); err != nil {
		return err
	}

	if addr := a.v.GetString("metrics-addr"); addr != "" {
		stop, err := a.serveMetrics(addr, g, spk)
		if err != nil {
			return err
		}
		defer stop()
	}

	a.log.Info("playing", "mode", mode, "sample_rate", s.SampleRate, "duration", s.Duration)

	switch mode {
	case modeSync:
		return playSync(ctx, g)
	case modeThreaded:
		return playThreaded(ctx, g)
	default:
		return a.playAuto(ctx, g, mode == modeAdaptive, s.blockDuration())
	}
}

// playSync paces itself on the speaker's blocking writes.
func playSync(ctx context.Context, g *generator.Generator) error {
	for ctx.Err() == nil {
		if _, err := g.Generate(); err != nil {
			return err
		}
	}
	return nil
}

func playThreaded(ctx context.Context, g *generator.Generator) error {
	if err := g.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return g.Stop()
}

// playAuto tops up the device buffer twice per block period.
func (a *app) playAuto(ctx context.Context, g *generator.Generator, adaptive bool, period time.Duration) error {
	fill := g.AutoGenerate
	if adaptive {
		fill = g.AdaptiveAutoGenerate
	}

	ticker := time.NewTicker(max(period/2, time.Millisecond))
	defer ticker.Stop()

	for {
		if err := fill(); err != nil {
			if !errors.Is(err, generator.ErrBufferNotReady) {
				return err
			}
			a.log.Debug("device buffer not ready", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) serveMetrics(addr string, g *generator.Generator, spk *otosink.Speaker) (func(), error) {
	reg := prometheus.NewRegistry()
	if _, err := metrics.NewGeneratorMetrics(reg, g, spk.DeviceBuffer); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
