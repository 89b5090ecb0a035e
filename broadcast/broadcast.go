// Package broadcast provides a best-effort one-to-many fan-out built on
// top of the module's mpsc channels: each subscriber gets its own private
// channel from [mpsc.NewChannel], and a full subscriber buffer is silently skipped rather
// than blocking the publisher or the other subscribers.
package broadcast

import (
	"sync"

	"github.com/ninetymile/mthread/mpsc"
)

// state is the shared broadcast state behind every cloned [Sender] handle.
type state[T any] struct {
	mu          sync.Mutex
	capacity    int
	closed      bool
	publishers  int
	subscribers []*mpsc.Sender[T]
}

// Sender is the publisher-side handle of a broadcast. It may be cloned to
// share publishing across goroutines; the broadcast closes once every
// clone has been closed.
type Sender[T any] struct {
	s        *state[T]
	released bool
}

// NewSender creates an empty broadcast. capacity is applied to every
// subscriber channel created by [Sender.Subscribe]. It panics if capacity
// is less than 1; use [TryNewSender] to handle that case without panicking.
func NewSender[T any](capacity int) *Sender[T] {
	snd, err := TryNewSender[T](capacity)
	if err != nil {
		panic(err)
	}
	return snd
}

// TryNewSender is the fallible counterpart of [NewSender]. It returns a
// [*mpsc.CapacityError] instead of panicking when capacity is less than 1,
// catching the mistake here rather than deferring it to the first
// [Sender.Subscribe] call, where it would otherwise surface as a panic
// from the underlying [mpsc.NewChannel].
func TryNewSender[T any](capacity int) (*Sender[T], error) {
	if capacity < 1 {
		return nil, &mpsc.CapacityError{Capacity: capacity}
	}
	return &Sender[T]{
		s: &state[T]{
			capacity:   capacity,
			publishers: 1,
		},
	}, nil
}

// Subscribe creates a fresh private channel of the broadcast's capacity
// and returns its receiver. If the broadcast is already closed, the
// returned receiver is pre-closed and its Recv immediately yields
// (zero, false).
func (snd *Sender[T]) Subscribe() *mpsc.Receiver[T] {
	s := snd.s
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, rx := mpsc.NewChannel[T](s.capacity)
	if s.closed {
		tx.Close()
		return rx
	}
	s.subscribers = append(s.subscribers, tx)
	return rx
}

// Send delivers msg to every current subscriber via a non-blocking
// try-send, skipping subscribers whose buffer is full. It returns the
// number of subscribers the message was actually delivered to. Send on a
// closed broadcast, or one with no subscribers, returns 0.
func (snd *Sender[T]) Send(msg T) int {
	s := snd.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	delivered := 0
	for _, sub := range s.subscribers {
		if sub.TrySend(msg) {
			delivered++
		}
	}
	return delivered
}

// Clone returns a new Sender handle sharing the same broadcast,
// incrementing the publisher reference count.
func (snd *Sender[T]) Clone() *Sender[T] {
	s := snd.s
	s.mu.Lock()
	s.publishers++
	s.mu.Unlock()
	return &Sender[T]{s: s}
}

// Close releases this Sender handle. When the last publisher handle
// closes, the broadcast closes: the subscriber list is emptied and every
// internal sender is closed, which (combined with each subscriber's own
// held receiver) drains and tears down their private channels. Close is
// idempotent per handle.
func (snd *Sender[T]) Close() {
	if snd.released {
		return
	}
	snd.released = true

	s := snd.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishers--
	if s.publishers > 0 {
		return
	}
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subscribers {
		sub.Close()
	}
	s.subscribers = nil
}
