package circuitbreaker

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

// State is the position of a breaker in its state machine.
type State string

const (
	// StateClosed lets every call through.
	StateClosed State = "CLOSED"
	// StateOpen rejects every call until the recovery timeout elapses.
	StateOpen State = "OPEN"
	// StateHalfOpen lets trial calls through to the dependency.
	StateHalfOpen State = "HALF_OPEN"
)

const maxTransitions = 50

// Operation is the unit of work guarded by a Breaker. The context passed in
// is cancelled once the breaker stops waiting for the result.
type Operation func(ctx context.Context) (any, error)

// Outcome is one entry of the sliding window.
type Outcome struct {
	Timestamp time.Time
	Success   bool
	Latency   time.Duration
}

// Transition records a state change.
type Transition struct {
	From   State
	To     State
	At     time.Time
	Reason string
}

// Breaker is a circuit breaker guarding one named operation. All state
// mutation happens under mu; the guarded operation itself runs outside it.
type Breaker struct {
	name   string
	cfg    Config
	logger logger.Interface
	now    func() time.Time

	mu                   sync.Mutex
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	totalRequests        int64
	totalFailures        int64
	totalSuccesses       int64
	rejected             int64
	timeouts             int64
	window               []Outcome
	windowNext           int
	lastFailureAt        time.Time
	lastTransitionAt     time.Time
	transitions          []Transition
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithClock replaces time.Now, used by tests to drive recovery deterministically.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// New creates a closed breaker.
func New(name string, cfg Config, log logger.Interface, opts ...Option) *Breaker {
	b := &Breaker{
		name:   name,
		cfg:    cfg.withDefaults(),
		logger: log,
		now:    time.Now,
		state:  StateClosed,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.lastTransitionAt = b.now()
	b.window = make([]Outcome, 0, b.cfg.SlidingWindowSize)
	return b
}

// Name returns the operation name the breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// Config returns the effective configuration.
func (b *Breaker) Config() Config {
	return b.cfg
}

// State returns the current state. An open breaker whose recovery timeout
// has elapsed still reports OPEN until the next call moves it on.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs op bounded by the configured request timeout.
func (b *Breaker) Execute(ctx context.Context, op Operation) (any, error) {
	return b.ExecuteWithTimeout(ctx, b.cfg.RequestTimeout, op)
}

// ExecuteWithTimeout runs op unless the breaker is open. An operation still
// running after timeout is abandoned, reported as a timeout and counted as a
// failure. Cancellation of ctx by the caller is returned as is and not recorded.
func (b *Breaker) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op Operation) (any, error) {
	if err := b.allow(); err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = b.cfg.RequestTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value any
		err   error
	}
	done := make(chan result, 1)
	start := b.now()

	go func() {
		value, err := op(callCtx)
		done <- result{value: value, err: err}
	}()

	select {
	case r := <-done:
		latency := b.now().Sub(start)
		if r.err != nil {
			if cancelled(ctx) {
				return nil, r.err
			}
			if stderrors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return nil, b.onTimeout(latency, timeout)
			}
			b.onResult(false, latency)
			return nil, r.err
		}
		b.onResult(true, latency)
		return r.value, nil
	case <-callCtx.Done():
		if cancelled(ctx) {
			return nil, ctx.Err()
		}
		return nil, b.onTimeout(b.now().Sub(start), timeout)
	}
}

// cancelled reports whether the caller gave up, as opposed to a deadline expiring.
func cancelled(ctx context.Context) bool {
	return stderrors.Is(ctx.Err(), context.Canceled)
}

// Do is Execute for operations returning a concrete type.
func Do[T any](ctx context.Context, b *Breaker, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := b.Execute(ctx, func(ctx context.Context) (any, error) {
		return op(ctx)
	})
	if err != nil {
		return zero, err
	}
	out, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return out, nil
}

// ForceOpen opens the breaker regardless of its counters. The recovery
// timeout starts from now.
func (b *Breaker) ForceOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailureAt = b.now()
	b.transition(StateOpen, "forced open")
}

// ForceClose closes the breaker and clears its consecutive counters.
func (b *Breaker) ForceClose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed, "forced closed")
	b.resetCounters()
}

// ResetMetrics clears every counter and the sliding window without changing state.
func (b *Breaker) ResetMetrics() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetCounters()
	b.totalRequests = 0
	b.totalFailures = 0
	b.totalSuccesses = 0
	b.rejected = 0
	b.timeouts = 0
	b.transitions = nil
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return nil
	}

	if b.now().Sub(b.lastFailureAt) >= b.cfg.RecoveryTimeout {
		b.transition(StateHalfOpen, "recovery timeout elapsed")
		return nil
	}

	b.rejected++
	return errors.NewErrorDetailsf(errors.CircuitOpenError, "circuit_breaker",
		"circuit breaker %q is open", b.name)
}

func (b *Breaker) onTimeout(latency, timeout time.Duration) error {
	b.mu.Lock()
	b.timeouts++
	b.mu.Unlock()

	b.onResult(false, latency)
	return errors.NewErrorDetailsf(errors.CircuitTimeoutError, "circuit_breaker",
		"operation %q exceeded timeout of %s", b.name, timeout)
}

func (b *Breaker) onResult(success bool, latency time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.totalRequests++
	b.record(Outcome{Timestamp: now, Success: success, Latency: latency})

	if success {
		b.totalSuccesses++
		b.consecutiveFailures = 0
		b.consecutiveSuccesses++

		if b.state == StateHalfOpen && b.consecutiveSuccesses >= b.cfg.SuccessThreshold {
			b.transition(StateClosed, fmt.Sprintf("%d consecutive successes", b.consecutiveSuccesses))
			b.resetCounters()
		}
		return
	}

	b.totalFailures++
	b.consecutiveSuccesses = 0
	b.consecutiveFailures++
	b.lastFailureAt = now

	switch b.state {
	case StateHalfOpen:
		b.transition(StateOpen, "failure while half-open")
	case StateClosed:
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			b.transition(StateOpen, fmt.Sprintf("%d consecutive failures", b.consecutiveFailures))
			return
		}
		if len(b.window) >= b.cfg.MinimumThroughput {
			if rate := b.errorRate(); rate >= b.cfg.ErrorPercentage {
				b.transition(StateOpen, fmt.Sprintf("error rate %.1f%% over %d calls", rate, len(b.window)))
			}
		}
	}
}

// record appends to the ring, overwriting the oldest entry once full.
func (b *Breaker) record(o Outcome) {
	if len(b.window) < b.cfg.SlidingWindowSize {
		b.window = append(b.window, o)
		return
	}
	b.window[b.windowNext] = o
	b.windowNext = (b.windowNext + 1) % b.cfg.SlidingWindowSize
}

func (b *Breaker) errorRate() float64 {
	if len(b.window) == 0 {
		return 0
	}
	failures := 0
	for _, o := range b.window {
		if !o.Success {
			failures++
		}
	}
	return float64(failures) * 100 / float64(len(b.window))
}

func (b *Breaker) resetCounters() {
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
	b.window = b.window[:0]
	b.windowNext = 0
}

// transition must be called with mu held.
func (b *Breaker) transition(to State, reason string) {
	from := b.state
	if from == to {
		return
	}

	now := b.now()
	b.state = to
	b.lastTransitionAt = now
	if to == StateHalfOpen {
		b.consecutiveSuccesses = 0
	}

	b.transitions = append(b.transitions, Transition{From: from, To: to, At: now, Reason: reason})
	if len(b.transitions) > maxTransitions {
		b.transitions = b.transitions[len(b.transitions)-maxTransitions:]
	}

	if b.logger != nil {
		b.logger.Warn("circuit breaker state changed",
			logger.NewField("breaker", b.name),
			logger.NewField("from", string(from)),
			logger.NewField("to", string(to)),
			logger.NewField("reason", reason),
		)
	}
}
