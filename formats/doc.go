// SPDX-License-Identifier: EPL-2.0

// Package formats decodes audio files into audio.Source streams.
//
// Supported inputs:
//   - WAV, integer PCM at 8/16/24/32 bits (go-audio/wav)
//   - AIFF, integer PCM at 8/16/24/32 bits (go-audio/aiff)
//   - MP3 (hajimehoshi/go-mp3), always decoded as stereo
//   - Ogg Vorbis (jfreymuth/oggvorbis)
//
// Open picks a decoder from the file extension:
//
//	src, err := formats.Open("loop.ogg")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// To drive a generator from a file, wrap it in a stream block source:
//
//	blocks := audio.NewStreamSource(formats.Opener("loop.ogg"), 44100, audio.DefaultBlockFrames, true)
//
// WAV and AIFF decoding needs to seek; readers that cannot seek are
// buffered in memory first.
package formats
