package aggregator

import "time"

// Config configures the Aggregator.
type Config struct {
	// CacheTTL is how long aggregation results stay memoized.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30m"`
	// GapTolerance is the fraction by which a timestamp delta may exceed the
	// expected period before it counts as a gap.
	GapTolerance float64 `env:"GAP_TOLERANCE" envDefault:"0.1"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		CacheTTL:     30 * time.Minute,
		GapTolerance: 0.1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.GapTolerance <= 0 {
		c.GapTolerance = d.GapTolerance
	}
	return c
}
