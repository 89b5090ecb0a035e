// Package mpsc provides a bounded multi-producer, multi-consumer channel
// with explicit endpoint reference counting. Unlike a plain Go channel,
// lifetime is not tied to a single close() call: the channel closes itself
// once either side's clone count reaches zero, and the backing buffer is
// released only once both sides have reached zero.
package mpsc

import "sync"

// channel is the shared state behind a [Sender]/[Receiver] pair. It is
// never exposed directly; all access goes through the endpoint handles.
type channel[T any] struct {
	mu      sync.Mutex
	canSend *sync.Cond
	canRecv *sync.Cond

	buf                []T
	head, tail, length int
	capacity           int

	closed    bool
	senders   int
	receivers int
}

func newChannel[T any](capacity int) *channel[T] {
	c := &channel[T]{
		buf:       make([]T, capacity),
		capacity:  capacity,
		senders:   1,
		receivers: 1,
	}
	c.canSend = sync.NewCond(&c.mu)
	c.canRecv = sync.NewCond(&c.mu)
	return c
}

// push assumes the caller holds c.mu and that there is room.
func (c *channel[T]) push(v T) {
	c.buf[c.tail] = v
	c.tail = (c.tail + 1) % c.capacity
	c.length++
}

// pop assumes the caller holds c.mu and that length > 0.
func (c *channel[T]) pop() T {
	v := c.buf[c.head]
	var zero T
	c.buf[c.head] = zero // let the GC reclaim the slot
	c.head = (c.head + 1) % c.capacity
	c.length--
	return v
}

// purge discards all queued items, used when the last receiver closes.
// Assumes the caller holds c.mu.
func (c *channel[T]) purge() {
	for i := range c.buf {
		var zero T
		c.buf[i] = zero
	}
	c.head, c.tail, c.length = 0, 0, 0
}

// maybeRelease frees the backing buffer once both endpoint counts have
// reached zero. Assumes the caller holds c.mu.
func (c *channel[T]) maybeRelease() {
	if c.senders == 0 && c.receivers == 0 {
		c.buf = nil
	}
}

// Sender is the producer-side endpoint of a channel created by
// [NewChannel] or [TryNewChannel]. A Sender may be
// cloned to allow multiple producers to share one channel; each clone
// must eventually be closed.
type Sender[T any] struct {
	c        *channel[T]
	released bool
}

// Receiver is the consumer-side endpoint of a channel created by
// [NewChannel] or [TryNewChannel]. A Receiver may
// be cloned to allow multiple consumers to share one channel; each clone
// must eventually be closed.
type Receiver[T any] struct {
	c        *channel[T]
	released bool
}

// NewChannel creates a bounded channel with the given capacity and
// returns its two endpoints, each starting with a reference count of 1.
// It panics if capacity is less than 1; use [TryNewChannel] to handle
// that case without panicking.
func NewChannel[T any](capacity int) (*Sender[T], *Receiver[T]) {
	s, r, err := TryNewChannel[T](capacity)
	if err != nil {
		panic(err)
	}
	return s, r
}

// TryNewChannel is the fallible counterpart of [NewChannel].
func TryNewChannel[T any](capacity int) (*Sender[T], *Receiver[T], error) {
	if capacity < 1 {
		return nil, nil, &CapacityError{Capacity: capacity}
	}
	c := newChannel[T](capacity)
	return &Sender[T]{c: c}, &Receiver[T]{c: c}, nil
}

// Send enqueues msg, blocking while the channel is full and still open
// with at least one receiver. It returns false if the channel is closed
// or has no receivers left, in which case msg is dropped.
func (s *Sender[T]) Send(msg T) bool {
	c := s.c
	c.mu.Lock()
	for !c.closed && c.receivers > 0 && c.length == c.capacity {
		c.canSend.Wait()
	}
	if c.closed || c.receivers == 0 {
		c.mu.Unlock()
		return false
	}
	c.push(msg)
	c.mu.Unlock()
	c.canRecv.Signal()
	return true
}

// TrySend is the non-blocking counterpart of [Sender.Send]. It returns
// false immediately if the channel is closed, has no receivers, or is
// full.
func (s *Sender[T]) TrySend(msg T) bool {
	c := s.c
	c.mu.Lock()
	if c.closed || c.receivers == 0 || c.length == c.capacity {
		c.mu.Unlock()
		return false
	}
	c.push(msg)
	c.mu.Unlock()
	c.canRecv.Signal()
	return true
}

// Clone returns a new Sender handle sharing the same channel, incrementing
// the sender reference count.
func (s *Sender[T]) Clone() *Sender[T] {
	c := s.c
	c.mu.Lock()
	c.senders++
	c.mu.Unlock()
	return &Sender[T]{c: c}
}

// Close releases this Sender handle, decrementing the sender reference
// count. When the count reaches zero the channel closes and wakes every
// blocked sender and receiver. Close is idempotent per handle: calling it
// more than once on the same handle has no additional effect.
func (s *Sender[T]) Close() {
	if s.released {
		return
	}
	s.released = true

	c := s.c
	c.mu.Lock()
	c.senders--
	if c.senders == 0 {
		c.closed = true
		c.canSend.Broadcast()
		c.canRecv.Broadcast()
	}
	c.maybeRelease()
	c.mu.Unlock()
}

// Recv blocks until an item is available or the channel is closed and
// drained. It returns (zero, false) once the channel is closed and empty.
func (r *Receiver[T]) Recv() (T, bool) {
	c := r.c
	c.mu.Lock()
	for !c.closed && c.length == 0 {
		c.canRecv.Wait()
	}
	if c.length == 0 {
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	v := c.pop()
	c.mu.Unlock()
	c.canSend.Signal()
	return v, true
}

// TryRecv is the non-blocking counterpart of [Receiver.Recv]. It returns
// the next item if one is queued, even on a closed channel, else
// (zero, false).
func (r *Receiver[T]) TryRecv() (T, bool) {
	c := r.c
	c.mu.Lock()
	if c.length == 0 {
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	v := c.pop()
	c.mu.Unlock()
	c.canSend.Signal()
	return v, true
}

// Len returns a best-effort snapshot of the number of items currently
// queued.
func (r *Receiver[T]) Len() int {
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length
}

// IsClosed reports whether the channel has closed. Closing is monotonic:
// once true, it never reverts to false.
func (r *Receiver[T]) IsClosed() bool {
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Clone returns a new Receiver handle sharing the same channel,
// incrementing the receiver reference count.
func (r *Receiver[T]) Clone() *Receiver[T] {
	c := r.c
	c.mu.Lock()
	c.receivers++
	c.mu.Unlock()
	return &Receiver[T]{c: c}
}

// Close releases this Receiver handle, decrementing the receiver
// reference count. When the count reaches zero the channel closes, any
// items still queued are dropped immediately (nothing remains to consume
// them), and every blocked sender and receiver is woken. Close is
// idempotent per handle.
func (r *Receiver[T]) Close() {
	if r.released {
		return
	}
	r.released = true

	c := r.c
	c.mu.Lock()
	c.receivers--
	if c.receivers == 0 {
		c.closed = true
		c.purge()
		c.canSend.Broadcast()
		c.canRecv.Broadcast()
	}
	c.maybeRelease()
	c.mu.Unlock()
}

// Drain reads and discards every item from r until it closes, then closes
// r itself. Used to unblock any senders still trying to deliver into a
// channel whose results are no longer wanted.
func Drain[T any](r *Receiver[T]) {
	for {
		if _, ok := r.Recv(); !ok {
			break
		}
	}
	r.Close()
}
