// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audgen/audio"
)

// AIFF decodes AIFF files holding integer PCM.
type AIFF struct{}

func (AIFF) Decode(r io.Reader) (audio.Source, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAIFF
	}
	dec.ReadInfo()

	return newIntSource(dec, dec.Format(), int(dec.BitDepth))
}
