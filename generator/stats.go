// SPDX-License-Identifier: EPL-2.0

package generator

import "sync/atomic"

// Stats counts what the generator has done since it was created.
type Stats struct {
	Blocks        uint64 // blocks routed by Generate or the loop
	Limited       uint64 // of those, blocks the limiter attenuated
	SinkWrites    uint64
	SinkErrors    uint64
	CallbackCalls uint64
	AutoBlocks    uint64 // blocks written by the auto-generate operations
}

type counters struct {
	blocks        atomic.Uint64
	limited       atomic.Uint64
	sinkWrites    atomic.Uint64
	sinkErrors    atomic.Uint64
	callbackCalls atomic.Uint64
	autoBlocks    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Blocks:        c.blocks.Load(),
		Limited:       c.limited.Load(),
		SinkWrites:    c.sinkWrites.Load(),
		SinkErrors:    c.sinkErrors.Load(),
		CallbackCalls: c.callbackCalls.Load(),
		AutoBlocks:    c.autoBlocks.Load(),
	}
}
