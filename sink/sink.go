// SPDX-License-Identifier: EPL-2.0

// Package sink defines where generated blocks go: files, device buffers and
// the speaker. A sink is owned by the caller; the generator only checks
// IsOpen and writes.
package sink

// Sink accepts mono float32 blocks. Write may block until the samples are
// accepted.
type Sink interface {
	IsOpen() bool
	Write(samples []float32) error
}

// NonBlocking is a Sink backed by a device buffer that can be topped up
// without waiting.
//
// A capacity query returns how many samples the caller may write before the
// buffer counts as full, or ErrNotReady. WriteNonBlocking never waits: it
// returns ErrBufferFull once the granted capacity is used up. The block
// passed to the call that first reports ErrBufferFull has been accepted.
// A block that was not accepted is reported with ErrNoRoom.
type NonBlocking interface {
	Sink
	WriteNonBlocking(samples []float32) error
	FillCapacity() (int, error)
	AdaptiveFillCapacity() (int, error)
}
