// SPDX-License-Identifier: EPL-2.0

// Package generator drives an audio.BlockSource and delivers its blocks to
// a sink and an optional callback.
//
// A Generator runs in one of two modes. In synchronous mode the caller
// invokes Generate once per block. In threaded mode Start launches a loop
// goroutine that repeatedly pulls a block with the gate held, releases the
// gate, then limits and routes the block. While the loop runs, the caller
// brackets any access to the block source's state with Lock and Unlock (or
// WithLock); Lock waits for at most one Tick.
//
// Every routed block goes through the same steps in both modes: the limiter
// (when configured), a write to the sink (when it is open), then the
// callback (when registered).
//
// AutoGenerate and AdaptiveAutoGenerate fill a sink.NonBlocking device
// buffer up to the capacity it reports. They skip the gate and the limiter
// and refuse to run while the loop is active.
//
//	g, err := generator.New(src, generator.WithSink(spk))
//	if err != nil {
//		return err
//	}
//	if err := g.SetLimiter(0.001, 0.005, 0.05); err != nil {
//		return err
//	}
//	if err := g.Init(); err != nil {
//		return err
//	}
//	if err := g.Start(); err != nil {
//		return err
//	}
//	defer g.Stop()
//
//	g.WithLock(func() error {
//		src.Frequency = 880
//		return nil
//	})
package generator
