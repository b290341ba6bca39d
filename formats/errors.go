// SPDX-License-Identifier: EPL-2.0

package formats

import "errors"

var (
	ErrNotWAV              = errors.New("not a WAV file")
	ErrNotAIFF             = errors.New("not an AIFF file")
	ErrUnsupportedEncoding = errors.New("only integer PCM is supported")
	ErrUnsupportedDepth    = errors.New("unsupported PCM bit depth")
	ErrInvalidLayout       = errors.New("invalid channel or rate layout")
	ErrUnknownFormat       = errors.New("no decoder registered for format")
)
