// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	// ErrBufferFull is returned by WriteNonBlocking once the capacity
	// granted by the last capacity query is used up.
	ErrBufferFull = errors.New("device buffer full")

	// ErrNoRoom is returned by WriteNonBlocking when the block was not
	// accepted: no capacity is granted or the block does not fit.
	ErrNoRoom = errors.New("no room in device buffer")

	// ErrNotReady is returned by capacity queries when the device cannot
	// take samples yet.
	ErrNotReady = errors.New("device buffer not ready")

	ErrClosed       = errors.New("sink closed")
	ErrInvalidRate  = errors.New("sample rate must be positive")
	ErrInvalidSize  = errors.New("invalid buffer size")
	ErrBlockTooLong = errors.New("block exceeds buffer capacity")
)
