package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	aggregationv1 "github.com/muhammadchandra19/historical-data/internal/domain/aggregation/v1"
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/kafka/publisher"
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
	"github.com/muhammadchandra19/historical-data/pkg/config"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	mockPostgres "github.com/muhammadchandra19/historical-data/pkg/postgresql/mock"
	mockQuestDB "github.com/muhammadchandra19/historical-data/pkg/questdb/mock"
	mockRedis "github.com/muhammadchandra19/historical-data/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestBootstrap_Init(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	b := (&Bootstrap{}).Init(BootstrapConfig{
		Config:   loadConfig(t),
		Logger:   logger.NewNopLogger(),
		QuestDB:  mockQuestDB.NewMockQuestDBClient(ctrl),
		Postgres: mockPostgres.NewMockPostgreSQLClient(ctrl),
		Redis:    mockRedis.NewMockClient(ctrl),
	})
	defer b.Close()

	assert.NotNil(t, b.Repository.BarRepository)
	assert.NotNil(t, b.Repository.SavedQueryRepository)
	assert.NotNil(t, b.Repository.CacheMirror)
	assert.IsType(t, publisher.NoopPublisher{}, b.Publisher)

	assert.NotNil(t, b.Usecase.Pipeline)
	assert.Equal(t, []string{"historical-fetch"}, b.Registry.Breakers.Names())
	assert.Same(t, b.Usecase.Fetcher.Breaker(), mustBreaker(t, b, "historical-fetch"))
}

func TestBootstrap_InitWithoutOptionalStores(t *testing.T) {
	b := (&Bootstrap{}).Init(BootstrapConfig{
		Config: loadConfig(t),
		Logger: logger.NewNopLogger(),
	})
	defer b.Close()

	assert.Nil(t, b.Repository.BarRepository)
	assert.Nil(t, b.Repository.SavedQueryRepository)
	assert.Nil(t, b.Repository.CacheMirror)

	_, err := b.Usecase.Pipeline.ListQueries(context.Background(), false)
	assert.True(t, errors.HasCode(err, errors.GeneralRepositoryError))

	start := time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)
	_, err = b.Usecase.Pipeline.Aggregate(context.Background(), aggregationv1.Request{
		Symbol: "AAPL", SourceFrequency: "1m", TargetFrequency: "1h",
		StartDate: start, EndDate: start.Add(time.Hour),
	})
	assert.True(t, errors.HasCode(err, errors.AggregationError))
}

func mustBreaker(t *testing.T, b *Bootstrap, name string) *circuitbreaker.Breaker {
	t.Helper()
	breaker, ok := b.Registry.Breakers.Get(name)
	require.True(t, ok)
	return breaker
}
