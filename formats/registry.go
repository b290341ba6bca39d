// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audgen/audio"
)

// NewRegistry returns a registry with every decoder in this package,
// keyed by the usual file extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", WAV{})
	reg.Register("wave", WAV{})
	reg.Register("mp3", MP3{})
	reg.Register("ogg", Vorbis{})
	reg.Register("oga", Vorbis{})
	reg.Register("aiff", AIFF{})
	reg.Register("aif", AIFF{})

	return reg
}

var defaultRegistry = NewRegistry()

// fileSource closes the underlying file together with the decoder.
type fileSource struct {
	audio.Source
	file *os.File
}

func (f *fileSource) Close() error {
	return errors.Join(f.Source.Close(), f.file.Close())
}

// Open decodes the file at path, choosing the decoder by extension.
func Open(path string) (audio.Source, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	dec, ok := defaultRegistry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &fileSource{Source: src, file: file}, nil
}

// Opener returns an audio.Opener that decodes path afresh on every call,
// for use with audio.StreamSource.
func Opener(path string) audio.Opener {
	return func() (audio.Source, error) {
		return Open(path)
	}
}
