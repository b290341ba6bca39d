// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/audgen/audio"
)

const wavFormatPCM = 1

// WAV decodes RIFF/WAVE files holding integer PCM.
type WAV struct{}

func (WAV) Decode(r io.Reader) (audio.Source, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}
	dec.ReadInfo()

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, ErrUnsupportedEncoding
	}

	return newIntSource(dec, dec.Format(), int(dec.BitDepth))
}
