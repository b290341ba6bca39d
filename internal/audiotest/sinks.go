// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/ik5/audgen/sink"
)

// RecordingSink is a sink.Sink that keeps a copy of every block written.
type RecordingSink struct {
	mu       sync.Mutex
	open     bool
	blocks   [][]float32
	writeErr error

	// OnWrite runs after a successful write, outside the sink's lock.
	OnWrite func(samples []float32)
}

// NewRecordingSink returns an open sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{open: true}
}

func (s *RecordingSink) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// SetOpen flips the value IsOpen reports.
func (s *RecordingSink) SetOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

// FailWith makes subsequent writes return err without recording.
func (s *RecordingSink) FailWith(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

func (s *RecordingSink) Write(samples []float32) error {
	s.mu.Lock()
	if s.writeErr != nil {
		err := s.writeErr
		s.mu.Unlock()
		return err
	}
	s.blocks = append(s.blocks, append([]float32(nil), samples...))
	onWrite := s.OnWrite
	s.mu.Unlock()

	if onWrite != nil {
		onWrite(samples)
	}
	return nil
}

// Blocks returns copies of the blocks written so far, oldest first.
func (s *RecordingSink) Blocks() [][]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]float32(nil), s.blocks...)
}

// Writes returns the number of recorded blocks.
func (s *RecordingSink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocks)
}

// BudgetSink is a sink.NonBlocking whose capacity queries grant a fixed
// number of samples, or fail with QueryErr.
type BudgetSink struct {
	RecordingSink

	Grant    int
	QueryErr error

	qmu           sync.Mutex
	budget        int
	fixedCalls    int
	adaptiveCalls int
}

func NewBudgetSink(grant int) *BudgetSink {
	return &BudgetSink{
		RecordingSink: RecordingSink{open: true},
		Grant:         grant,
	}
}

func (s *BudgetSink) FillCapacity() (int, error) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	s.fixedCalls++
	return s.grant()
}

func (s *BudgetSink) AdaptiveFillCapacity() (int, error) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	s.adaptiveCalls++
	return s.grant()
}

func (s *BudgetSink) grant() (int, error) {
	if s.QueryErr != nil {
		return 0, s.QueryErr
	}
	s.budget = s.Grant
	return s.Grant, nil
}

func (s *BudgetSink) WriteNonBlocking(samples []float32) error {
	s.qmu.Lock()
	if s.budget <= 0 {
		s.qmu.Unlock()
		return sink.ErrNoRoom
	}
	s.budget -= len(samples)
	left := s.budget
	s.qmu.Unlock()

	if err := s.RecordingSink.Write(samples); err != nil {
		return err
	}
	if left <= 0 {
		return sink.ErrBufferFull
	}
	return nil
}

// Calls returns how many fixed and adaptive capacity queries were made.
func (s *BudgetSink) Calls() (fixed, adaptive int) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	return s.fixedCalls, s.adaptiveCalls
}
