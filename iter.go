package mthread

import (
	"context"
	"io"
	"sync"
)

// Seq is a single-consumer, pull-based lazy sequence: the concrete type
// the parallel-iterator bridge drives. Next returns io.EOF once
// exhausted. Composing Seq values (Filter, Take, Map, ...) never starts
// a goroutine; all work happens on whichever goroutine calls Next.
type Seq[T any] struct {
	next func(context.Context) (T, error)
	mu   sync.Mutex
	err  error
}

// NewSeq wraps a raw pull function as a Seq.
func NewSeq[T any](next func(context.Context) (T, error)) *Seq[T] {
	return &Seq[T]{next: next}
}

// Next pulls the next item. Once it has returned a non-nil error, every
// subsequent call returns the same error without invoking the underlying
// pull function again.
func (s *Seq[T]) Next(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		var zero T
		return zero, s.err
	}
	v, err := s.next(ctx)
	if err != nil {
		s.err = err
	}
	return v, err
}

// Err returns the sequence's terminal error, or nil if it ended cleanly
// (io.EOF) or has not ended yet.
func (s *Seq[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// FromSlice creates a Seq over a slice's elements in order.
func FromSlice[T any](items []T) *Seq[T] {
	i := 0
	return NewSeq(func(context.Context) (T, error) {
		if i >= len(items) {
			var zero T
			return zero, io.EOF
		}
		v := items[i]
		i++
		return v, nil
	})
}

// FromChan creates a Seq that yields values received from ch until ch is
// closed, unblocking early if ctx is cancelled.
func FromChan[T any](ch <-chan T) *Seq[T] {
	return NewSeq(func(ctx context.Context) (T, error) {
		select {
		case v, ok := <-ch:
			if !ok {
				var zero T
				return zero, io.EOF
			}
			return v, nil
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	})
}

// FromFunc creates a Seq backed by a plain pull function that reports
// exhaustion via its boolean return, following the map-lookup / channel
// two-value idiom.
func FromFunc[T any](f func() (T, bool)) *Seq[T] {
	return NewSeq(func(context.Context) (T, error) {
		v, ok := f()
		if !ok {
			var zero T
			return zero, io.EOF
		}
		return v, nil
	})
}

// Filter returns a Seq yielding only the items of s for which pred
// returns true.
func (s *Seq[T]) Filter(pred func(T) bool) *Seq[T] {
	return NewSeq(func(ctx context.Context) (T, error) {
		for {
			v, err := s.Next(ctx)
			if err != nil {
				return v, err
			}
			if pred(v) {
				return v, nil
			}
		}
	})
}

// Take returns a Seq yielding at most n items of s.
func (s *Seq[T]) Take(n int) *Seq[T] {
	taken := 0
	return NewSeq(func(ctx context.Context) (T, error) {
		if taken >= n {
			var zero T
			return zero, io.EOF
		}
		v, err := s.Next(ctx)
		if err != nil {
			return v, err
		}
		taken++
		return v, nil
	})
}

// Skip returns a Seq that discards the first n items of s.
func (s *Seq[T]) Skip(n int) *Seq[T] {
	skipped := 0
	return NewSeq(func(ctx context.Context) (T, error) {
		for skipped < n {
			_, err := s.Next(ctx)
			skipped++
			if err != nil {
				var zero T
				return zero, err
			}
		}
		return s.Next(ctx)
	})
}

// Map transforms every item of s with f. Go has no generic methods on
// generic types, so Map is a free function rather than *Seq[A].Map.
func Map[A, B any](s *Seq[A], f func(context.Context, A) (B, error)) *Seq[B] {
	return NewSeq(func(ctx context.Context) (B, error) {
		v, err := s.Next(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(ctx, v)
	})
}

// Batch groups items of s into slices of up to size items, yielding a
// final shorter batch if s ends mid-batch. Panics if size < 1.
func Batch[T any](s *Seq[T], size int) *Seq[[]T] {
	if size < 1 {
		panic("mthread: Batch requires size >= 1")
	}
	done := false
	return NewSeq(func(ctx context.Context) ([]T, error) {
		if done {
			return nil, io.EOF
		}
		batch := make([]T, 0, size)
		for len(batch) < size {
			v, err := s.Next(ctx)
			if err != nil {
				done = true
				if len(batch) > 0 {
					return batch, nil
				}
				return nil, err
			}
			batch = append(batch, v)
		}
		return batch, nil
	})
}

// Pair holds two values paired from two sequences. Used by [Zip].
type Pair[A, B any] struct {
	First  A
	Second B
}

// Scan returns a Seq that applies fn cumulatively to each item, emitting
// every intermediate accumulation. The first emitted value is
// fn(initial, firstItem).
func Scan[T, R any](s *Seq[T], initial R, fn func(R, T) R) *Seq[R] {
	acc := initial
	return NewSeq(func(ctx context.Context) (R, error) {
		v, err := s.Next(ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		acc = fn(acc, v)
		return acc, nil
	})
}

// Zip pairs items from two sequences element by element, stopping as
// soon as either is exhausted.
func Zip[A, B any](a *Seq[A], b *Seq[B]) *Seq[Pair[A, B]] {
	return NewSeq(func(ctx context.Context) (Pair[A, B], error) {
		va, err := a.Next(ctx)
		if err != nil {
			var zero Pair[A, B]
			return zero, err
		}
		vb, err := b.Next(ctx)
		if err != nil {
			var zero Pair[A, B]
			return zero, err
		}
		return Pair[A, B]{First: va, Second: vb}, nil
	})
}

// ToSlice drains s into a slice, stopping at io.EOF.
func (s *Seq[T]) ToSlice(ctx context.Context) ([]T, error) {
	var out []T
	for {
		v, err := s.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		out = append(out, v)
	}
}

// ForEach calls f for every item of s, stopping at io.EOF.
func (s *Seq[T]) ForEach(ctx context.Context, f func(T)) error {
	for {
		v, err := s.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		f(v)
	}
}

// Count drains s, returning the number of items yielded.
func (s *Seq[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.ForEach(ctx, func(T) { n++ })
	return n, err
}
