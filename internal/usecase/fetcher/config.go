package fetcher

import "time"

// Config configures the Fetcher.
type Config struct {
	// RateLimitInterval is the minimum spacing between two upstream calls.
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"500ms"`
	// DemoMode serves generated bars when the upstream circuit is open.
	DemoMode    bool   `env:"DEMO_MODE" envDefault:"false"`
	BreakerName string `env:"BREAKER_NAME" envDefault:"historical-fetch"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		RateLimitInterval: 500 * time.Millisecond,
		BreakerName:       "historical-fetch",
	}
}
