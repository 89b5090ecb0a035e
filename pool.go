package mthread

import (
	"sync"
	"sync/atomic"

	"github.com/ninetymile/mthread/mpsc"
)

// Job is a unit of work submitted to a [Pool]. It takes no arguments and
// returns no value; use [SubmitResult] when the caller needs the result
// of the work back.
type Job func()

// PoolStats is a point-in-time snapshot of pool activity.
type PoolStats struct {
	Submitted int64 // total jobs submitted
	Completed int64 // jobs finished (including panicked ones)
	Panicked  int64 // jobs that panicked
	InFlight  int64 // jobs currently executing
	Workers   int   // worker count, fixed at creation
}

// PoolOption configures a [Pool].
type PoolOption func(*poolConfig)

type poolConfig struct {
	onPanic func(*PanicError)
}

// WithOnPanic registers a callback invoked, in addition to the panic
// being recorded in [Pool.Stats], every time a job panics. Panics if fn
// is nil.
func WithOnPanic(fn func(*PanicError)) PoolOption {
	if fn == nil {
		panic("mthread: WithOnPanic requires a non-nil callback")
	}
	return func(c *poolConfig) {
		c.onPanic = fn
	}
}

// Pool is a fixed-size worker pool: size worker goroutines pull jobs from
// one internal mpsc channel of queueCapacity and run them until the
// queue is closed and drained.
type Pool struct {
	tx      *mpsc.Sender[Job]
	workers []*Thread[struct{}]
	size    int

	closeOnce    sync.Once
	joinOnce     sync.Once
	shutdownOnce sync.Once

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	inFlight  atomic.Int64

	onPanic func(*PanicError)

	panicMu sync.Mutex
	panics  []*PanicError
}

// NewPool creates a pool with size worker goroutines pulling jobs from a
// queue of the given capacity. Workers start immediately. Panics if size
// is not positive.
func NewPool(size, queueCapacity int, opts ...PoolOption) *Pool {
	if size <= 0 {
		panic("mthread: NewPool requires size > 0")
	}

	var cfg poolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tx, rx := mpsc.NewChannel[Job](queueCapacity)
	p := &Pool{
		tx:      tx,
		size:    size,
		onPanic: cfg.onPanic,
	}

	p.workers = make([]*Thread[struct{}], size)
	for i := 0; i < size; i++ {
		workerRx := rx
		if i > 0 {
			workerRx = rx.Clone()
		}
		p.workers[i] = Spawn(func() struct{} {
			defer workerRx.Close()
			for {
				job, ok := workerRx.Recv()
				if !ok {
					return struct{}{}
				}
				p.runJob(job)
			}
		})
	}

	return p
}

// Size returns the fixed number of worker goroutines.
func (p *Pool) Size() int { return p.size }

func (p *Pool) runJob(job Job) {
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}()
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(r)
			p.panicked.Add(1)
			p.panicMu.Lock()
			p.panics = append(p.panics, pe)
			p.panicMu.Unlock()
			if p.onPanic != nil {
				p.onPanic(pe)
			}
		}
	}()
	job()
}

// Submit enqueues job, blocking while the queue is full. It returns false
// if the pool has been closed.
func (p *Pool) Submit(job Job) bool {
	ok := p.tx.Send(job)
	if ok {
		p.submitted.Add(1)
	}
	return ok
}

// TrySubmit is the non-blocking counterpart of [Pool.Submit].
func (p *Pool) TrySubmit(job Job) bool {
	ok := p.tx.TrySend(job)
	if ok {
		p.submitted.Add(1)
	}
	return ok
}

// SubmitResult submits f wrapped as a job that sends its return value
// into a private one-shot channel, returning that channel's receiver.
// The second return value is false (and the receiver nil) if submission
// failed because the pool is closed.
func SubmitResult[T any](p *Pool, f func() T) (*mpsc.Receiver[T], bool) {
	tx, rx := mpsc.NewChannel[T](1)
	ok := p.Submit(func() {
		// tx must close even if f panics, or rx.Recv() blocks forever:
		// runJob recovers the panic, so this job's sender count never
		// drops on its own otherwise.
		defer tx.Close()
		tx.Send(f())
	})
	if !ok {
		tx.Close()
		rx.Close()
		return nil, false
	}
	return rx, true
}

// Close stops accepting new jobs. Jobs already queued still run; workers
// observe end-of-stream once the queue drains. Safe to call more than
// once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.tx.Close()
	})
}

// Join waits for every worker goroutine to exit. Must follow [Pool.Close]
// or it blocks forever. Safe to call more than once.
func (p *Pool) Join() {
	p.joinOnce.Do(func() {
		for _, w := range p.workers {
			w.Join()
		}
	})
}

// Shutdown is Close followed by Join. Idempotent.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.Close()
		p.Join()
	})
}

// Stats returns a point-in-time snapshot of pool activity. Safe to call
// concurrently.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		InFlight:  p.inFlight.Load(),
		Workers:   p.size,
	}
}
