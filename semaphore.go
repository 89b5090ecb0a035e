package mthread

import (
	"context"
	"sync/atomic"
)

// Semaphore is a counting semaphore used as the parallel-iterator
// bridge's permit mechanism: one permit is held per in-flight chunk, and
// MaxInFlight bounds how many chunks may be submitted to the pool without
// having completed.
type Semaphore struct {
	ch       chan struct{}
	cap      int
	acquired atomic.Int64
}

// NewSemaphore creates a semaphore with the given capacity. Panics if n
// is not positive.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		panic("mthread: NewSemaphore requires n > 0")
	}
	return &Semaphore{
		ch:  make(chan struct{}, n),
		cap: n,
	}
}

// Acquire blocks until a permit is available or ctx is cancelled.
// Returns ctx.Err() on cancellation, nil on success.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		s.acquired.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a permit without blocking.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.ch <- struct{}{}:
		s.acquired.Add(1)
		return true
	default:
		return false
	}
}

// Release returns a permit. Panics if more permits are released than
// acquired.
func (s *Semaphore) Release() {
	if s.acquired.Add(-1) < 0 {
		s.acquired.Add(1) // undo
		panic("mthread: Semaphore.Release called without matching Acquire")
	}
	<-s.ch
}

// Available returns the number of free permits. The value may be stale
// in concurrent use.
func (s *Semaphore) Available() int {
	return s.cap - len(s.ch)
}
