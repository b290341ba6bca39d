// SPDX-License-Identifier: EPL-2.0

package generator

import "errors"

var (
	ErrNilSource      = errors.New("block source is nil")
	ErrNilCallback    = errors.New("output callback is nil")
	ErrNotInitialized = errors.New("generator not initialized")
	ErrRunning        = errors.New("generation loop is running")
	ErrLocked         = errors.New("gate is held by the caller")
	ErrAlreadyLocked  = errors.New("gate already held by the caller")
	ErrNotLocked      = errors.New("gate not held")
	ErrSinkWrite      = errors.New("writing block to sink")

	// ErrNotNonBlocking is returned by the auto-generate operations when
	// the sink is missing or cannot be written without blocking.
	ErrNotNonBlocking = errors.New("sink does not support non-blocking writes")

	// ErrBufferNotReady is returned by the auto-generate operations when
	// the sink's capacity query fails. No block is produced; callers are
	// expected to retry later.
	ErrBufferNotReady = errors.New("device buffer not ready")
)
