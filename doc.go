// Package mthread provides share-nothing concurrency primitives for Go:
// goroutine handles, a fixed-size worker pool, and a parallel-iterator
// bridge, all built on top of the endpoint-counted MPSC channel in the
// [github.com/ninetymile/mthread/mpsc] subpackage.
//
// # Threads
//
// [Spawn] launches a goroutine and returns a [Thread] handle. [Thread.Join]
// blocks for the result; calling it more than once is safe and returns the
// cached value rather than blocking again:
//
//	th := mthread.Spawn(func() int { return compute() })
//	v := th.Join()
//
// # Worker Pool
//
// [Pool] is a fixed-size worker pool backed internally by an
// [github.com/ninetymile/mthread/mpsc] channel of [Job] values. Submit work
// with [Pool.Submit] (blocking) or [Pool.TrySubmit] (non-blocking); use
// [SubmitResult] when a job needs to return a typed value. [Pool.Shutdown]
// closes the queue and waits for every queued job to finish; [Pool.Stats]
// reports submitted/completed/panicked/in-flight counters.
//
// A panic inside a job is recovered, captured as a [*PanicError] with a
// stack trace, and counted. Register [WithOnPanic] to observe it instead of
// losing it silently.
//
// # Sequences and Parallel Iteration
//
// [Seq] is a pull-based, composable sequence: [FromSlice], [FromChan], and
// [FromFunc] construct one, [Seq.Filter], [Seq.Take], [Seq.Skip], [Map],
// [Batch], [Scan], and [Zip] build pipelines lazily, and [Seq.ToSlice],
// [Seq.ForEach], and [Seq.Count] drive them to completion.
//
// [ParEach], [ParMapCollectUnordered], and [ParFilterCollectUnordered]
// bridge a [Seq] onto a [Pool]: items are pulled in chunks, each chunk
// becomes one pool job, and a [Semaphore] bounds how many chunks may be
// in flight at once. [DefaultParConfig] derives a sensible [ParConfig] from
// a pool's worker count.
//
// # Errors
//
// [ErrPoolClosed] is a sentinel callers may use when wrapping the bool
// returned by [Pool.Submit]/[Pool.TrySubmit] into an error; the bool itself
// is the primary signal, nothing in this package returns the sentinel
// directly. [JoinError] and the error types in
// [github.com/ninetymile/mthread/mpsc] follow the same wrapped-struct-error
// convention throughout the module.
//
// # Broadcast
//
// The [github.com/ninetymile/mthread/broadcast] subpackage provides a
// best-effort one-to-many fan-out: every [broadcast.Sender.Subscribe] call
// returns an independent MPSC receiver, and [broadcast.Sender.Send]
// delivers to every still-open subscriber without letting one slow
// subscriber block delivery to the others.
package mthread
