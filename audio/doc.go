// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks used by the
// generator.
//
// # Blocks
//
// A Block is one fixed-length run of mono float32 samples. A BlockSource
// produces them one Tick at a time:
//
//	type BlockSource interface {
//	    Init() error
//	    Tick() *Block
//	}
//
// The block returned by Tick is owned by the source and reused on the next
// Tick; copy it (Block.Clone) to keep it around.
//
// Two sources ship with the package: ToneSource, a sine test tone, and
// StreamSource, which turns any decoded Source into blocks at a target rate.
//
// # Streams
//
// Source is the pull interface implemented by the decoders in the formats
// package and by the stream processors here:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Resampler changes the rate with cubic interpolation and MonoMixer folds
// channels down by averaging:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 44100))
//
// Samples are normalized to [-1, 1]. ReadSamples returns io.EOF once a
// stream is finished:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Registry
//
// Registry maps format keys to decoders so callers can pick one by file
// extension:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", formats.WAV{})
//	dec, ok := reg.Get("WAV")
package audio
