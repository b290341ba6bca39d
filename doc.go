// SPDX-License-Identifier: EPL-2.0

// Package audgen schedules real-time audio generation.
//
// Audio is produced one fixed-size block at a time by an audio.BlockSource
// and handed to a sink and an optional callback by a generator.Generator,
// either synchronously on the caller's goroutine or on a dedicated loop
// goroutine that the caller can pause with a gate.
//
// # Packages
//
//   - audio: blocks, block sources (tones, decoded files) and the
//     resample/downmix pipeline that feeds them
//   - formats: WAV, AIFF, MP3 and Ogg Vorbis decoders
//   - limiter: attack/hold/release peak limiter
//   - sink: WAV file sink and the device buffer used for speaker output
//   - sink/otosink: speaker output through oto
//   - generator: the scheduler itself
//   - metrics: Prometheus collector for generator and device counters
//
// # Quick Start
//
// Render two seconds of a limited 440 Hz tone to a WAV file:
//
//	f, _ := os.Create("tone.wav")
//	defer f.Close()
//
//	src := audio.NewToneSource(440, 1.2, 48000, audio.DefaultBlockFrames)
//	blocks := 2 * 48000 / audio.DefaultBlockFrames
//	err := audgen.RenderWAV(f, src, 48000, blocks, limiter.Config{
//		Attack:  0.001,
//		Hold:    0.005,
//		Release: 0.05,
//	})
//
// Play a file in a loop on the speaker, generating on a background
// goroutine:
//
//	src := audgen.OpenFile("loop.mp3", 48000, audio.DefaultBlockFrames, true)
//	spk, _ := otosink.New(otosink.Config{SampleRate: 48000})
//	g, _ := generator.New(src, generator.WithSink(spk))
//	_ = g.Init()
//	_ = g.Start()
//	defer g.Stop()
package audgen
