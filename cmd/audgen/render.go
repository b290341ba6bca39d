// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/audgen"
	"github.com/spf13/cobra"
)

func (a *app) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render generated audio to a WAV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.render()
		},
	}

	cmd.Flags().StringP("output", "o", "out.wav", "WAV file to write")
	cmd.Flags().Bool("force", false, "overwrite an existing output file")
	_ = a.v.BindPFlags(cmd.Flags())

	return cmd
}

func (a *app) render() error {
	s, err := a.resolve()
	if err != nil {
		return err
	}

	blocks := s.blocks()
	if blocks == 0 {
		return errors.New("render needs a positive --duration")
	}

	out := a.v.GetString("output")
	if fileExists(out) && !a.v.GetBool("force") {
		return fmt.Errorf("%s exists, use --force to overwrite", out)
	}

	src, closeSrc := s.source()
	defer closeSrc()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	a.log.Info("rendering",
		"output", out,
		"blocks", blocks,
		"sample_rate", s.SampleRate,
		"limiter", s.Limiter.Enabled())

	if err := audgen.RenderWAV(f, src, s.SampleRate, blocks, s.Limiter); err != nil {
		return fmt.Errorf("rendering %s: %w", out, err)
	}

	return f.Close()
}
