package provider

import "time"

// Config configures the upstream chart client.
type Config struct {
	BaseURL   string        `env:"BASE_URL" envDefault:"https://query1.finance.yahoo.com"`
	UserAgent string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (compatible; historical-data/1.0)"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	// RetryCount is zero by default: a retry would run inside a single
	// breaker operation and rate-limit slot.
	RetryCount    int           `env:"RETRY_COUNT" envDefault:"0"`
	RetryWaitTime time.Duration `env:"RETRY_WAIT_TIME" envDefault:"1s"`
	RetryMaxWait  time.Duration `env:"RETRY_MAX_WAIT" envDefault:"10s"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://query1.finance.yahoo.com",
		UserAgent:     "Mozilla/5.0 (compatible; historical-data/1.0)",
		Timeout:       30 * time.Second,
		RetryCount:    0,
		RetryWaitTime: time.Second,
		RetryMaxWait:  10 * time.Second,
	}
}
