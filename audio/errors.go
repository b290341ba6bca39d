// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidFrames  = errors.New("block frame count must be positive")
	ErrNilOpener      = errors.New("stream opener is nil")
	ErrNotInitialized = errors.New("block source not initialized")
	ErrEmptyStream    = errors.New("looped stream has no samples")
)
