package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/kafka/publisher"
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/provider"
	"github.com/muhammadchandra19/historical-data/internal/usecase/aggregator"
	"github.com/muhammadchandra19/historical-data/internal/usecase/cache"
	"github.com/muhammadchandra19/historical-data/internal/usecase/fetcher"
	"github.com/muhammadchandra19/historical-data/internal/usecase/pipeline"
	"github.com/muhammadchandra19/historical-data/internal/usecase/validator"
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
	"github.com/muhammadchandra19/historical-data/pkg/postgresql"
	"github.com/muhammadchandra19/historical-data/pkg/questdb"
	"github.com/muhammadchandra19/historical-data/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App            AppConfig             `envPrefix:"APP_"`
	QuestDB        questdb.Config        `envPrefix:"QUESTDB_"`
	Postgres       postgresql.Config     `envPrefix:"POSTGRES_"`
	Redis          redis.Config          `envPrefix:"REDIS_"`
	Kafka          publisher.Config      `envPrefix:"KAFKA_"`
	Provider       provider.Config       `envPrefix:"PROVIDER_"`
	Cache          cache.Config          `envPrefix:"CACHE_"`
	CircuitBreaker circuitbreaker.Config `envPrefix:"CIRCUIT_BREAKER_"`
	Fetcher        fetcher.Config        `envPrefix:"FETCHER_"`
	Validation     validator.Config      `envPrefix:"VALIDATION_"`
	Aggregator     aggregator.Config     `envPrefix:"AGGREGATOR_"`
	Pipeline       pipeline.Config       `envPrefix:"PIPELINE_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"historical-data"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
