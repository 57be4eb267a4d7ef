package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	res Result
	err error
}

func start(ctx context.Context, l *Loop) <-chan runResult {
	done := make(chan runResult, 1)
	go func() {
		res, err := l.Run(ctx)
		done <- runResult{res, err}
	}()
	return done
}

func TestLoop_RunsOnEveryInterval(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	var calls atomic.Int32
	l := &Loop{
		Clock:    clock,
		Interval: 2 * time.Second,
		Cycle: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}
	loopCtx, stop := context.WithCancel(ctx)
	done := start(loopCtx, l)

	for want := int32(1); want <= 3; want++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		assert.Equal(t, want, calls.Load())
		clock.Advance(2 * time.Second)
	}

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	stop()
	r := <-done
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Equal(t, 4, r.res.Cycles)
	assert.Equal(t, 0, r.res.Failed)
}

func TestLoop_DoesNotRunBeforeInterval(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	var calls atomic.Int32
	l := &Loop{
		Clock: clock,
		Cycle: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}
	loopCtx, stop := context.WithCancel(ctx)
	done := start(loopCtx, l)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(DefaultInterval - time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	stop()
	<-done
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoop_FailedCycleDoesNotStopLoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var calls int
	l := &Loop{
		Clock:     clock,
		MaxCycles: 3,
		Cycle: func(context.Context) error {
			calls++
			if calls == 2 {
				return errors.New("root missing")
			}
			return nil
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := start(context.Background(), l)

	for i := 0; i < 2; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(DefaultInterval)
	}

	r := <-done
	require.NoError(t, r.err)
	assert.Equal(t, Result{Cycles: 3, Failed: 1}, r.res)
}

func TestLoop_MaxCyclesOne(t *testing.T) {
	var calls int
	l := &Loop{
		Clock:     clockwork.NewFakeClock(),
		MaxCycles: 1,
		Cycle:     func(context.Context) error { calls++; return nil },
	}
	res, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cycles)
	assert.Equal(t, 1, calls)
}

func TestLoop_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	l := &Loop{Clock: clockwork.NewFakeClock(), Cycle: func(context.Context) error { called = true; return nil }}
	res, err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Zero(t, res.Cycles)
}

func TestLoop_CancelDuringCycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		Clock: clockwork.NewFakeClock(),
		Cycle: func(ctx context.Context) error {
			cancel()
			return ctx.Err()
		},
	}
	res, err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Result{Cycles: 1}, res)
}

func TestLoop_NoCycle(t *testing.T) {
	_, err := (&Loop{}).Run(context.Background())
	assert.Error(t, err)
}
