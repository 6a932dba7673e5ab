package cache

import "time"

// Config configures the Cache.
type Config struct {
	// TTL applies to entries set without an explicit lifetime.
	TTL time.Duration `env:"TTL" envDefault:"30m"`
	// MaxSizeBytes bounds the total payload bytes held.
	MaxSizeBytes  int64         `env:"MAX_SIZE_BYTES" envDefault:"104857600"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	// AccessHistory bounds how far back per-entry access times are kept.
	AccessHistory    time.Duration `env:"ACCESS_HISTORY" envDefault:"24h"`
	MaxAccessHistory int           `env:"MAX_ACCESS_HISTORY" envDefault:"100"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		TTL:              30 * time.Minute,
		MaxSizeBytes:     100 * 1024 * 1024,
		SweepInterval:    time.Minute,
		AccessHistory:    24 * time.Hour,
		MaxAccessHistory: 100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.MaxSizeBytes <= 0 {
		c.MaxSizeBytes = d.MaxSizeBytes
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = d.SweepInterval
	}
	if c.AccessHistory <= 0 {
		c.AccessHistory = d.AccessHistory
	}
	if c.MaxAccessHistory <= 0 {
		c.MaxAccessHistory = d.MaxAccessHistory
	}
	return c
}
