package circuitbreaker

import "time"

// Metrics is a point-in-time snapshot of a breaker.
type Metrics struct {
	Name                 string        `json:"name"`
	State                State         `json:"state"`
	ConsecutiveFailures  int           `json:"consecutiveFailures"`
	ConsecutiveSuccesses int           `json:"consecutiveSuccesses"`
	TotalRequests        int64         `json:"totalRequests"`
	TotalFailures        int64         `json:"totalFailures"`
	TotalSuccesses       int64         `json:"totalSuccesses"`
	RejectedRequests     int64         `json:"rejectedRequests"`
	Timeouts             int64         `json:"timeouts"`
	WindowSize           int           `json:"windowSize"`
	ErrorRate            float64       `json:"errorRate"`
	AverageLatency       time.Duration `json:"averageLatency"`
	LastFailureAt        time.Time     `json:"lastFailureAt"`
	LastTransitionAt     time.Time     `json:"lastTransitionAt"`
	Transitions          []Transition  `json:"transitions"`
}

// Metrics returns a snapshot of counters, window statistics and recent transitions.
func (b *Breaker) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total time.Duration
	for _, o := range b.window {
		total += o.Latency
	}
	var avg time.Duration
	if len(b.window) > 0 {
		avg = total / time.Duration(len(b.window))
	}

	transitions := make([]Transition, len(b.transitions))
	copy(transitions, b.transitions)

	return Metrics{
		Name:                 b.name,
		State:                b.state,
		ConsecutiveFailures:  b.consecutiveFailures,
		ConsecutiveSuccesses: b.consecutiveSuccesses,
		TotalRequests:        b.totalRequests,
		TotalFailures:        b.totalFailures,
		TotalSuccesses:       b.totalSuccesses,
		RejectedRequests:     b.rejected,
		Timeouts:             b.timeouts,
		WindowSize:           len(b.window),
		ErrorRate:            b.errorRate(),
		AverageLatency:       avg,
		LastFailureAt:        b.lastFailureAt,
		LastTransitionAt:     b.lastTransitionAt,
		Transitions:          transitions,
	}
}
