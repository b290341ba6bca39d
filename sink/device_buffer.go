// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/smallnest/ringbuffer"
)

const (
	bytesPerSample = 4

	// healthyDecay is how many underrun-free adaptive queries pass before
	// the adaptive target shrinks by one block.
	healthyDecay = 32
)

// DeviceBuffer is a bounded float32 buffer between a generator and an
// audio device. The generator writes blocks; the device drains it through
// Read, the io.Reader an oto player pulls from.
//
// The fixed capacity estimate tops the buffer up to a target fill. The
// adaptive estimate raises that target by one block after every underrun
// and lets it decay back once playback has been stable for a while.
type DeviceBuffer struct {
	mu   sync.Mutex
	cond *sync.Cond
	ring *ringbuffer.RingBuffer

	capacity    int // samples
	blockFrames int
	target      int
	adaptive    int

	budget    int
	primed    bool
	underrun  bool
	healthy   int
	underruns uint64
	closed    bool

	scratch []byte
}

// NewDeviceBuffer returns a buffer holding up to capacity samples that is
// topped up to target samples. blockFrames is the adaptive step.
func NewDeviceBuffer(capacity, target, blockFrames int) (*DeviceBuffer, error) {
	if capacity <= 0 || blockFrames <= 0 || target <= 0 || target > capacity {
		return nil, ErrInvalidSize
	}

	d := &DeviceBuffer{
		ring:        ringbuffer.New(capacity * bytesPerSample),
		capacity:    capacity,
		blockFrames: blockFrames,
		target:      target,
		adaptive:    target,
	}
	d.cond = sync.NewCond(&d.mu)

	return d, nil
}

func (d *DeviceBuffer) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed
}

// Write blocks until the whole block fits.
func (d *DeviceBuffer) Write(samples []float32) error {
	need := len(samples) * bytesPerSample
	if len(samples) > d.capacity {
		return ErrBlockTooLong
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for !d.closed && d.ring.Free() < need {
		d.cond.Wait()
	}
	if d.closed {
		return ErrClosed
	}

	d.put(samples)
	return nil
}

func (d *DeviceBuffer) WriteNonBlocking(samples []float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.budget <= 0 || d.ring.Free() < len(samples)*bytesPerSample {
		return ErrNoRoom
	}

	d.put(samples)
	d.budget -= len(samples)
	if d.budget <= 0 {
		return ErrBufferFull
	}
	return nil
}

// put encodes samples into the ring. d.mu must be held and the ring must
// have room.
func (d *DeviceBuffer) put(samples []float32) {
	need := len(samples) * bytesPerSample
	if cap(d.scratch) < need {
		d.scratch = make([]byte, need)
	}
	buf := d.scratch[:need]
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*bytesPerSample:], math.Float32bits(v))
	}

	// Free space was checked, so the ring takes everything.
	d.ring.Write(buf)
	d.primed = true
}

func (d *DeviceBuffer) FillCapacity() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrNotReady
	}
	return d.grant(d.target), nil
}

func (d *DeviceBuffer) AdaptiveFillCapacity() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrNotReady
	}

	switch {
	case d.underrun:
		d.adaptive = min(d.adaptive+d.blockFrames, d.capacity)
		d.underrun = false
		d.healthy = 0
	case d.adaptive > d.target:
		d.healthy++
		if d.healthy >= healthyDecay {
			d.adaptive = max(d.adaptive-d.blockFrames, d.target)
			d.healthy = 0
		}
	}

	return d.grant(d.adaptive), nil
}

// grant sets the write budget to the shortfall against target, capped at
// the whole blocks that still fit in the ring.
func (d *DeviceBuffer) grant(target int) int {
	room := d.ring.Free() / bytesPerSample
	room -= room % d.blockFrames
	d.budget = max(min(target-d.ring.Length()/bytesPerSample, room), 0)
	return d.budget
}

// Read fills p with buffered little-endian float32 samples. Missing samples
// are played as silence and counted as an underrun once the buffer has
// received data. After Close it returns io.EOF.
func (d *DeviceBuffer) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, io.EOF
	}

	want := len(p) - len(p)%bytesPerSample
	avail := min(d.ring.Length(), want)
	n := 0
	if avail > 0 {
		n, _ = d.ring.Read(p[:avail])
	}
	if n < want {
		clear(p[n:want])
		if d.primed {
			d.underrun = true
			d.underruns++
		}
	}

	d.cond.Broadcast()
	return want, nil
}

// Buffered returns the number of samples waiting to be played.
func (d *DeviceBuffer) Buffered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ring.Length() / bytesPerSample
}

// AdaptiveTarget returns the current adaptive fill target in samples.
func (d *DeviceBuffer) AdaptiveTarget() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adaptive
}

// Underruns returns how many reads ran short of data.
func (d *DeviceBuffer) Underruns() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.underruns
}

// Close wakes blocked writers and makes capacity queries fail.
func (d *DeviceBuffer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.closed {
		d.closed = true
		d.ring.Reset()
		d.cond.Broadcast()
	}
	return nil
}
