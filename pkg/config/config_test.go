package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "historical-data", cfg.App.Name)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, int64(100*1024*1024), cfg.Cache.MaxSizeBytes)
	assert.Equal(t, 5, cfg.CircuitBreaker.FailureThreshold)
	assert.Equal(t, 3, cfg.CircuitBreaker.SuccessThreshold)
	assert.Equal(t, 60*time.Second, cfg.CircuitBreaker.RecoveryTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetcher.RateLimitInterval)
	assert.False(t, cfg.Fetcher.DemoMode)
	assert.Equal(t, 50, cfg.Validation.MaxSymbols)
	assert.Equal(t, 3650, cfg.Validation.MaxDateRangeDays)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Pipeline.PersistBars)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("CIRCUIT_BREAKER_FAILURE_THRESHOLD", "2")
	t.Setenv("FETCHER_DEMO_MODE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("AGGREGATOR_GAP_TOLERANCE", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2, cfg.CircuitBreaker.FailureThreshold)
	assert.True(t, cfg.Fetcher.DemoMode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 0.25, cfg.Aggregator.GapTolerance)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse config")
}
