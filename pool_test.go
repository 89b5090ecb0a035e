package mthread

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_PanicsOnBadSize(t *testing.T) {
	assert.Panics(t, func() {
		NewPool(0, 4)
	})
}

func TestPool_SubmitRunsJob(t *testing.T) {
	p := NewPool(2, 4)
	defer p.Shutdown()

	var ran atomic.Bool
	done := make(chan struct{})
	assert.True(t, p.Submit(func() {
		ran.Store(true)
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	assert.True(t, ran.Load())
}

// Seed scenario 3: NewPool(4, 64); SubmitResult(40+2); receiver yields
// (42, true).
func TestPool_SeedScenario3(t *testing.T) {
	p := NewPool(4, 64)

	rx, ok := SubmitResult(p, func() int { return 40 + 2 })
	require.True(t, ok)

	v, ok := rx.Recv()
	require.True(t, ok)
	assert.Equal(t, 42, v)

	p.Shutdown()
}

func TestPool_SubmitAfterCloseFails(t *testing.T) {
	p := NewPool(2, 4)
	p.Close()
	p.Join()

	assert.False(t, p.Submit(func() {}))
	assert.False(t, p.TrySubmit(func() {}))

	_, ok := SubmitResult(p, func() int { return 1 })
	assert.False(t, ok)
}

// P-Pool-Completion: every job submitted before Close has run by the time
// Shutdown returns.
func TestPool_ShutdownRunsAllQueuedJobs(t *testing.T) {
	p := NewPool(3, 128)

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		require.True(t, p.Submit(func() {
			count.Add(1)
		}))
	}

	p.Shutdown()
	assert.Equal(t, int64(100), count.Load())
}

func TestPool_ShutdownIdempotent(t *testing.T) {
	p := NewPool(2, 4)
	p.Shutdown()
	p.Shutdown() // must not panic or hang
}

func TestPool_PanicRecoveredAndCounted(t *testing.T) {
	var captured *PanicError
	p := NewPool(1, 4, WithOnPanic(func(pe *PanicError) {
		captured = pe
	}))

	done := make(chan struct{})
	p.Submit(func() {
		defer close(done)
		panic("boom")
	})
	<-done

	p.Shutdown()
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Panicked)
	require.NotNil(t, captured)
	assert.Equal(t, "boom", captured.Value)
}

// A panic inside SubmitResult's f must still close the one-shot channel,
// or rx.Recv() would block forever since runJob recovers the panic and
// the job itself never reaches Send/Close.
func TestPool_SubmitResultPanicClosesChannel(t *testing.T) {
	p := NewPool(1, 4)
	defer p.Shutdown()

	rx, ok := SubmitResult(p, func() int {
		panic("boom")
	})
	require.True(t, ok)

	v, recvOK := rx.Recv()
	assert.False(t, recvOK)
	assert.Equal(t, 0, v)
}

func TestPool_StatsCountsSubmittedAndCompleted(t *testing.T) {
	p := NewPool(2, 16)

	var wg int32
	for i := 0; i < 5; i++ {
		p.Submit(func() {
			atomic.AddInt32(&wg, 1)
		})
	}
	p.Shutdown()

	stats := p.Stats()
	assert.Equal(t, int64(5), stats.Submitted)
	assert.Equal(t, int64(5), stats.Completed)
	assert.Equal(t, 2, stats.Workers)
}
