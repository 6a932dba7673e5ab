package circuitbreaker

import "time"

// Config holds the thresholds of a single breaker.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens a closed breaker.
	FailureThreshold int `env:"FAILURE_THRESHOLD" envDefault:"5"`
	// SuccessThreshold is the number of consecutive half-open successes that closes it again.
	SuccessThreshold int `env:"SUCCESS_THRESHOLD" envDefault:"3"`
	// RecoveryTimeout is how long an open breaker waits after the last failure before probing.
	RecoveryTimeout time.Duration `env:"RECOVERY_TIMEOUT" envDefault:"60s"`
	// RequestTimeout bounds every guarded operation started through Execute.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	SlidingWindowSize int     `env:"SLIDING_WINDOW_SIZE" envDefault:"100"`
	MinimumThroughput int     `env:"MINIMUM_THROUGHPUT" envDefault:"10"`
	ErrorPercentage   float64 `env:"ERROR_PERCENTAGE" envDefault:"50"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:  5,
		SuccessThreshold:  3,
		RecoveryTimeout:   60 * time.Second,
		RequestTimeout:    30 * time.Second,
		SlidingWindowSize: 100,
		MinimumThroughput: 10,
		ErrorPercentage:   50,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = d.SuccessThreshold
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = d.RecoveryTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.SlidingWindowSize <= 0 {
		c.SlidingWindowSize = d.SlidingWindowSize
	}
	if c.MinimumThroughput <= 0 {
		c.MinimumThroughput = d.MinimumThroughput
	}
	if c.ErrorPercentage <= 0 {
		c.ErrorPercentage = d.ErrorPercentage
	}
	return c
}
