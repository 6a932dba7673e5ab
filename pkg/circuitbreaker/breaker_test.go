package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errUpstream = errors.New("upstream down")

func succeed(ctx context.Context) (any, error) { return "ok", nil }
func fail(ctx context.Context) (any, error)    { return nil, errUpstream }

func newTestBreaker(cfg Config, clock *fakeClock) *Breaker {
	return New("historical-fetch", cfg, logger.NewNopLogger(), WithClock(clock.Now))
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{FailureThreshold: 3, MinimumThroughput: 100}, clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.Execute(ctx, fail)
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, StateClosed, b.State())
	}

	_, err := b.Execute(ctx, fail)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, StateOpen, b.State())

	var invoked int32
	_, err = b.Execute(ctx, func(ctx context.Context) (any, error) {
		atomic.AddInt32(&invoked, 1)
		return nil, nil
	})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CircuitOpenError))
	assert.Equal(t, int32(0), atomic.LoadInt32(&invoked))

	m := b.Metrics()
	assert.Equal(t, int64(1), m.RejectedRequests)
	assert.Equal(t, int64(3), m.TotalRequests)
	assert.Equal(t, 3, m.WindowSize)
}

func TestBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{FailureThreshold: 3, MinimumThroughput: 100}, clock)
	ctx := context.Background()

	for _, op := range []Operation{fail, fail, succeed, fail, fail} {
		_, _ = b.Execute(ctx, op)
	}
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 2, b.Metrics().ConsecutiveFailures)
}

func TestBreaker_OpensOnErrorRate(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{FailureThreshold: 100, MinimumThroughput: 4, ErrorPercentage: 50}, clock)
	ctx := context.Background()

	for _, op := range []Operation{succeed, fail, succeed} {
		_, _ = b.Execute(ctx, op)
		assert.Equal(t, StateClosed, b.State())
	}

	_, _ = b.Execute(ctx, fail)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_Recovery(t *testing.T) {
	testCases := []struct {
		name     string
		trials   []Operation
		expected State
	}{
		{
			name:     "successes close the breaker",
			trials:   []Operation{succeed, succeed},
			expected: StateClosed,
		},
		{
			name:     "single success stays half-open",
			trials:   []Operation{succeed},
			expected: StateHalfOpen,
		},
		{
			name:     "failure reopens",
			trials:   []Operation{succeed, fail},
			expected: StateOpen,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := newFakeClock()
			b := newTestBreaker(Config{
				FailureThreshold:  1,
				SuccessThreshold:  2,
				RecoveryTimeout:   time.Minute,
				MinimumThroughput: 100,
			}, clock)
			ctx := context.Background()

			_, _ = b.Execute(ctx, fail)
			require.Equal(t, StateOpen, b.State())

			clock.Advance(59 * time.Second)
			_, err := b.Execute(ctx, succeed)
			require.True(t, pkgerrors.HasCode(err, pkgerrors.CircuitOpenError))

			clock.Advance(time.Second)
			for _, trial := range tc.trials {
				_, _ = b.Execute(ctx, trial)
			}
			assert.Equal(t, tc.expected, b.State())
		})
	}
}

func TestBreaker_ClosingResetsCounters(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{FailureThreshold: 2, SuccessThreshold: 1, RecoveryTimeout: time.Second, MinimumThroughput: 100}, clock)
	ctx := context.Background()

	_, _ = b.Execute(ctx, fail)
	_, _ = b.Execute(ctx, fail)
	require.Equal(t, StateOpen, b.State())

	clock.Advance(time.Second)
	_, err := b.Execute(ctx, succeed)
	require.NoError(t, err)
	require.Equal(t, StateClosed, b.State())

	m := b.Metrics()
	assert.Equal(t, 0, m.ConsecutiveFailures)
	assert.Equal(t, 0, m.WindowSize)

	// one failure after closing must not reopen with threshold 2
	_, _ = b.Execute(ctx, fail)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_TimeoutCountsAsFailure(t *testing.T) {
	b := New("slow", Config{FailureThreshold: 1, MinimumThroughput: 100}, logger.NewNopLogger())

	release := make(chan struct{})
	defer close(release)

	_, err := b.ExecuteWithTimeout(context.Background(), 20*time.Millisecond, func(ctx context.Context) (any, error) {
		<-release
		return "late", nil
	})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CircuitTimeoutError))
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, int64(1), b.Metrics().Timeouts)
}

func TestBreaker_OperationHonouringDeadlineIsTimeout(t *testing.T) {
	b := New("ctx-aware", Config{FailureThreshold: 5, MinimumThroughput: 100}, logger.NewNopLogger())

	_, err := b.ExecuteWithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CircuitTimeoutError))
	assert.Equal(t, int64(1), b.Metrics().TotalFailures)
}

func TestBreaker_CallerCancellationNotRecorded(t *testing.T) {
	b := New("cancel", Config{FailureThreshold: 1, MinimumThroughput: 100}, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	_, err := b.Execute(ctx, func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, int64(0), b.Metrics().TotalRequests)
}

func TestBreaker_ForceAndReset(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{RecoveryTimeout: time.Minute}, clock)
	ctx := context.Background()

	b.ForceOpen()
	_, err := b.Execute(ctx, succeed)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CircuitOpenError))

	b.ForceClose()
	v, err := b.Execute(ctx, succeed)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	b.ResetMetrics()
	m := b.Metrics()
	assert.Equal(t, StateClosed, m.State)
	assert.Zero(t, m.TotalRequests)
	assert.Zero(t, m.RejectedRequests)
	assert.Empty(t, m.Transitions)
}

func TestBreaker_TransitionLogIsBounded(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{}, clock)

	for i := 0; i < 40; i++ {
		b.ForceOpen()
		b.ForceClose()
	}

	m := b.Metrics()
	require.Len(t, m.Transitions, maxTransitions)
	assert.Equal(t, StateClosed, m.Transitions[len(m.Transitions)-1].To)
}

func TestBreaker_SlidingWindowIsBounded(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(Config{SlidingWindowSize: 5}, clock)

	for i := 0; i < 12; i++ {
		_, _ = b.Execute(context.Background(), succeed)
	}
	m := b.Metrics()
	assert.Equal(t, 5, m.WindowSize)
	assert.Equal(t, int64(12), m.TotalRequests)
}

func TestBreaker_ConcurrentExecute(t *testing.T) {
	b := New("parallel", Config{FailureThreshold: 1000, MinimumThroughput: 1000}, logger.NewNopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = b.Execute(context.Background(), succeed)
				return
			}
			_, _ = b.Execute(context.Background(), fail)
		}(i)
	}
	wg.Wait()

	m := b.Metrics()
	assert.Equal(t, int64(50), m.TotalRequests)
	assert.Equal(t, int64(25), m.TotalFailures)
	assert.InDelta(t, 50.0, m.ErrorRate, 0.001)
}

func TestDo(t *testing.T) {
	b := New("typed", Config{}, logger.NewNopLogger())

	out, err := Do(context.Background(), b, func(ctx context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)

	out, err = Do(context.Background(), b, func(ctx context.Context) ([]int, error) {
		return nil, errUpstream
	})
	assert.ErrorIs(t, err, errUpstream)
	assert.Nil(t, out)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(logger.NewNopLogger())

	a := r.GetOrCreate("historical-fetch", Config{FailureThreshold: 2})
	b := r.GetOrCreate("historical-fetch", Config{FailureThreshold: 9})
	assert.Same(t, a, b)
	assert.Equal(t, 2, a.Config().FailureThreshold)

	r.GetOrCreate("aggregate-read", DefaultConfig())
	assert.Equal(t, []string{"aggregate-read", "historical-fetch"}, r.Names())

	got, ok := r.Get("aggregate-read")
	assert.True(t, ok)
	assert.Equal(t, "aggregate-read", got.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	a.ForceOpen()
	snap := r.Snapshot()
	assert.Equal(t, StateOpen, snap["historical-fetch"].State)
	assert.Equal(t, StateClosed, snap["aggregate-read"].State)

	r.ResetAll()
	assert.Empty(t, r.Snapshot()["historical-fetch"].Transitions)
}
