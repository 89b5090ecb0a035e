package mthread

import "sync"

// Thread is a join-once handle around a goroutine that produces a typed
// result. Unlike an OS thread, a goroutine cannot be detached: if the
// handle is never joined, the goroutine still runs to completion and its
// result is simply left undrained on the buffered result channel, to be
// collected by the garbage collector along with the handle.
type Thread[T any] struct {
	result chan T
	once   sync.Once
	cached T
}

// Spawn launches f on a new goroutine and returns a handle for retrieving
// its result.
func Spawn[T any](f func() T) *Thread[T] {
	th := &Thread[T]{result: make(chan T, 1)}
	go func() {
		th.result <- f()
	}()
	return th
}

// Join blocks until the goroutine started by [Spawn] returns, then yields
// its value. Calling Join more than once returns the same cached value
// rather than blocking on an already-drained channel, since the spec's
// "callers must not join twice" contract has no safe way to be enforced
// in Go without risking a permanent hang on the second call.
func (th *Thread[T]) Join() T {
	th.once.Do(func() {
		th.cached = <-th.result
	})
	return th.cached
}

// TryJoin is the fallible counterpart of [Join]. In this implementation
// it cannot actually fail (a goroutine always eventually sends its
// result), so it always succeeds; it exists for API parity with the
// spec's try_join, which exists to report OS-level join failures that a
// Go goroutine simply does not have.
func (th *Thread[T]) TryJoin() (T, error) {
	return th.Join(), nil
}
