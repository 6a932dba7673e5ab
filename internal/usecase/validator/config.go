package validator

// Config holds the request limits.
type Config struct {
	MaxSymbols       int `env:"MAX_SYMBOLS" envDefault:"50"`
	MaxDateRangeDays int `env:"MAX_DATE_RANGE_DAYS" envDefault:"3650"`
	// MaxRecords is the ceiling larger limits are clamped to.
	MaxRecords int `env:"MAX_RECORDS" envDefault:"100000"`
	// WarmingThreshold is how often a symbol must be requested before it is
	// recommended for cache warming.
	WarmingThreshold int `env:"WARMING_THRESHOLD" envDefault:"3"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		MaxSymbols:       50,
		MaxDateRangeDays: 3650,
		MaxRecords:       100000,
		WarmingThreshold: 3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxSymbols <= 0 {
		c.MaxSymbols = d.MaxSymbols
	}
	if c.MaxDateRangeDays <= 0 {
		c.MaxDateRangeDays = d.MaxDateRangeDays
	}
	if c.MaxRecords <= 0 {
		c.MaxRecords = d.MaxRecords
	}
	if c.WarmingThreshold <= 0 {
		c.WarmingThreshold = d.WarmingThreshold
	}
	return c
}
