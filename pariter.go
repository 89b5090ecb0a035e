package mthread

import (
	"context"
	"sync"

	"github.com/ninetymile/mthread/mpsc"
)

// ParConfig tunes the parallel-iterator bridge: how many items each
// submitted job processes (ChunkSize), and how many chunks may be
// in flight — submitted but not yet completed — at once (MaxInFlight).
type ParConfig struct {
	ChunkSize   int
	MaxInFlight int
}

// NewParConfig builds a ParConfig, substituting 64 for a non-positive
// chunkSize and 1 for a non-positive maxInFlight.
func NewParConfig(chunkSize, maxInFlight int) ParConfig {
	if chunkSize < 1 {
		chunkSize = 64
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return ParConfig{ChunkSize: chunkSize, MaxInFlight: maxInFlight}
}

// DefaultParConfig returns the spec's default configuration for a given
// pool: chunk size 64, max in flight 2x the pool's worker count.
func DefaultParConfig(pool *Pool) ParConfig {
	return ParConfig{ChunkSize: 64, MaxInFlight: 2 * pool.Size()}
}

// pullChunk pulls up to n items from seq on the calling goroutine,
// reporting whether seq is now exhausted (the returned chunk may still
// hold a final partial batch pulled before exhaustion was observed).
func pullChunk[T any](ctx context.Context, seq *Seq[T], n int) ([]T, bool) {
	chunk := make([]T, 0, n)
	for len(chunk) < n {
		v, err := seq.Next(ctx)
		if err != nil {
			return chunk, true
		}
		chunk = append(chunk, v)
	}
	return chunk, false
}

// ParEach drives seq on the calling goroutine, submitting chunks of up to
// cfg.ChunkSize items to pool for f to run over, bounding the number of
// chunks in flight to cfg.MaxInFlight. It returns true iff every chunk
// was submitted successfully (the pool was never closed midway).
func ParEach[T any](ctx context.Context, seq *Seq[T], pool *Pool, cfg ParConfig, f func(T)) bool {
	sem := NewSemaphore(cfg.MaxInFlight)
	var wg sync.WaitGroup
	ok := true

	for {
		chunk, exhausted := pullChunk(ctx, seq, cfg.ChunkSize)
		if len(chunk) > 0 {
			if err := sem.Acquire(ctx); err != nil {
				ok = false
				break
			}
			wg.Add(1)
			c := chunk
			submitted := pool.Submit(func() {
				defer sem.Release()
				defer wg.Done()
				for _, v := range c {
					f(v)
				}
			})
			if !submitted {
				sem.Release()
				wg.Done()
				ok = false
				break
			}
		}
		if exhausted {
			break
		}
	}

	wg.Wait()
	return ok
}

// ParMapCollectUnordered maps every item of seq with f, submitting chunks
// to pool and collecting the mapped results as they complete. Result
// order matches chunk completion order, not input order. The second
// return value is false if submission failed partway, in which case the
// first return value is nil.
func ParMapCollectUnordered[T, U any](ctx context.Context, seq *Seq[T], pool *Pool, cfg ParConfig, f func(T) U) ([]U, bool) {
	resTx, resRx := mpsc.NewChannel[[]U](cfg.MaxInFlight)
	sem := NewSemaphore(cfg.MaxInFlight)
	var wg sync.WaitGroup
	ok := true

	// Drain resRx concurrently with production: jobs send into it as their
	// chunks finish, and with MaxInFlight permits outstanding the channel
	// fills before wg.Wait() could ever return if nothing were reading it
	// in the meantime.
	var out []U
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for {
			batch, more := resRx.Recv()
			if !more {
				return
			}
			out = append(out, batch...)
		}
	}()

	for {
		chunk, exhausted := pullChunk(ctx, seq, cfg.ChunkSize)
		if len(chunk) > 0 {
			if err := sem.Acquire(ctx); err != nil {
				ok = false
				break
			}
			wg.Add(1)
			c := chunk
			submitted := pool.Submit(func() {
				defer sem.Release()
				defer wg.Done()
				mapped := make([]U, len(c))
				for i, v := range c {
					mapped[i] = f(v)
				}
				resTx.Send(mapped)
			})
			if !submitted {
				sem.Release()
				wg.Done()
				ok = false
				break
			}
		}
		if exhausted {
			break
		}
	}

	wg.Wait()
	resTx.Close()
	<-collected

	if !ok {
		return nil, false
	}
	return out, true
}

// ParFilterCollectUnordered filters seq with pred, submitting chunks to
// pool and collecting the surviving items as their chunks complete.
// Result order matches chunk completion order, not input order.
func ParFilterCollectUnordered[T any](ctx context.Context, seq *Seq[T], pool *Pool, cfg ParConfig, pred func(T) bool) ([]T, bool) {
	resTx, resRx := mpsc.NewChannel[[]T](cfg.MaxInFlight)
	sem := NewSemaphore(cfg.MaxInFlight)
	var wg sync.WaitGroup
	ok := true

	// See ParMapCollectUnordered: this drains concurrently with production
	// rather than after wg.Wait(), since a result channel sized to
	// MaxInFlight fills before production could ever finish otherwise.
	var out []T
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for {
			batch, more := resRx.Recv()
			if !more {
				return
			}
			out = append(out, batch...)
		}
	}()

	for {
		chunk, exhausted := pullChunk(ctx, seq, cfg.ChunkSize)
		if len(chunk) > 0 {
			if err := sem.Acquire(ctx); err != nil {
				ok = false
				break
			}
			wg.Add(1)
			c := chunk
			submitted := pool.Submit(func() {
				defer sem.Release()
				defer wg.Done()
				var kept []T
				for _, v := range c {
					if pred(v) {
						kept = append(kept, v)
					}
				}
				if kept != nil {
					resTx.Send(kept)
				}
			})
			if !submitted {
				sem.Release()
				wg.Done()
				ok = false
				break
			}
		}
		if exhausted {
			break
		}
	}

	wg.Wait()
	resTx.Close()
	<-collected

	if !ok {
		return nil, false
	}
	return out, true
}
