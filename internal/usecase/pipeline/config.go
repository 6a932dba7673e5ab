package pipeline

import "time"

// Config configures the Pipeline.
type Config struct {
	// PersistBars writes fetched upstream bars to the bar store.
	PersistBars bool `env:"PERSIST_BARS" envDefault:"true"`
	// ResponseTTL is how long a complete response stays cached. Zero uses the cache default.
	ResponseTTL time.Duration `env:"RESPONSE_TTL" envDefault:"0s"`
	// SkipWeekendGaps ignores weekend-only holes when annotating fetched series.
	SkipWeekendGaps bool `env:"SKIP_WEEKEND_GAPS" envDefault:"true"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		PersistBars:     true,
		SkipWeekendGaps: true,
	}
}
