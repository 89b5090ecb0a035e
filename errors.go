package mthread

import "errors"

// ErrPoolClosed names the taxonomy entry behind [Pool.Submit] and
// [Pool.TrySubmit] returning false after the pool has been closed; it is
// exported as a sentinel for callers that wrap Submit and want to return
// a structured error instead of a bare bool.
var ErrPoolClosed = errors.New("mthread: pool is closed")

// JoinError reports a failure to join a [Thread], surfaced by
// [Thread.TryJoin]. Reserved: [Thread.Join] cannot currently fail, so
// TryJoin never actually produces one yet; the type exists so a future
// fallible join (e.g. a joined goroutine that can be cancelled) has
// somewhere to report through without an API break.
type JoinError struct {
	Reason string
}

func (e *JoinError) Error() string {
	return "mthread: thread join failed: " + e.Reason
}
