// SPDX-License-Identifier: EPL-2.0

package limiter

import "errors"

var (
	ErrNegativeTime     = errors.New("limiter times must not be negative")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrInvalidThreshold = errors.New("threshold must be in (0, 1]")
)
