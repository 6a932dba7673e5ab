package publisher

import "time"

// Config configures the bar event publisher.
type Config struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Brokers      []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"historical.bars.ingested"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"50ms"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}
