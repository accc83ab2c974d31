package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingRefresher struct {
	calls   atomic.Int32
	running atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
	err     error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	if r.running.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.running.Add(-1)
	r.calls.Add(1)
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.err
}

func TestScheduler_RefreshesOnInterval(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 20*time.Millisecond)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_ReportsFailuresAndKeepsRunning(t *testing.T) {
	r := &countingRefresher{err: errors.New("upstream down")}
	var mu sync.Mutex
	var reported []error
	s := New(r, 20*time.Millisecond, WithErrorReporter(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, err := range reported {
		assert.EqualError(t, err, "upstream down")
	}
}

func TestScheduler_NeverOverlaps(t *testing.T) {
	r := &countingRefresher{delay: 30 * time.Millisecond}
	s := New(r, 5*time.Millisecond, WithMinTriggerInterval(0))
	require.NoError(t, s.Start(context.Background()))

	for i := 0; i < 10; i++ {
		_ = s.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
	assert.False(t, r.overlap.Load())
}

func TestScheduler_TriggerThrottled(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, time.Hour, WithMinTriggerInterval(time.Minute))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.NoError(t, s.Trigger())
	assert.ErrorIs(t, s.Trigger(), ErrRefreshThrottled)
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_TriggerUnlimited(t *testing.T) {
	s := New(&countingRefresher{}, time.Hour, WithMinTriggerInterval(0))
	for i := 0; i < 5; i++ {
		assert.NoError(t, s.Trigger())
	}
}

func TestScheduler_StopWaitsForLoop(t *testing.T) {
	r := &countingRefresher{delay: 50 * time.Millisecond}
	s := New(r, time.Hour, WithMinTriggerInterval(0))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Trigger())
	require.Eventually(t, func() bool { return r.running.Load() == 1 }, time.Second, time.Millisecond)

	s.Stop()
	assert.EqualValues(t, 0, r.running.Load())
	s.Stop()
}

func TestScheduler_CancelledRefreshNotReported(t *testing.T) {
	r := &countingRefresher{delay: time.Second}
	var reported atomic.Int32
	s := New(r, time.Hour, WithMinTriggerInterval(0), WithErrorReporter(func(error) { reported.Add(1) }))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Trigger())
	require.Eventually(t, func() bool { return r.running.Load() == 1 }, time.Second, time.Millisecond)

	s.Stop()
	assert.EqualValues(t, 0, reported.Load())
}

func TestScheduler_RefreshTimeout(t *testing.T) {
	r := &countingRefresher{delay: time.Second}
	reported := make(chan error, 1)
	s := New(r, time.Hour,
		WithMinTriggerInterval(0),
		WithRefreshTimeout(20*time.Millisecond),
		WithErrorReporter(func(err error) { reported <- err }),
	)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	require.NoError(t, s.Trigger())

	select {
	case err := <-reported:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout was not reported")
	}
}

func TestScheduler_StartRejectsBadInterval(t *testing.T) {
	s := New(&countingRefresher{}, 0)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_DefaultReporterLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := &countingRefresher{err: errors.New("upstream down")}
	s := New(r, time.Hour, WithLogger(zap.New(core)), WithMinTriggerInterval(0))
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Trigger())
	require.Eventually(t, func() bool {
		return logs.FilterLevelExact(zapcore.ErrorLevel).Len() == 1
	}, time.Second, 5*time.Millisecond)
	s.Stop()

	entry := logs.FilterLevelExact(zapcore.ErrorLevel).All()[0]
	assert.Equal(t, "scheduled inventory refresh failed", entry.Message)
}
