package bootstrap

import (
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	"github.com/muhammadchandra19/historical-data/pkg/config"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/postgresql"
	"github.com/muhammadchandra19/historical-data/pkg/questdb"
	"github.com/muhammadchandra19/historical-data/pkg/redis"
)

// Bootstrap wires the historical data pipeline.
type Bootstrap struct {
	Config     *config.Config
	Logger     logger.Interface
	Registry   Registry
	Repository Repository
	Usecase    Usecase
	Publisher  barv1.EventPublisher

	QuestDB  questdb.QuestDBClient
	Postgres postgresql.PostgreSQLClient
	Redis    redis.Client
}

// BootstrapConfig is the config for the bootstrap. Postgres and Redis are
// optional; without them saved queries are unavailable and the cache stays local.
type BootstrapConfig struct {
	Config   *config.Config
	Logger   logger.Interface
	QuestDB  questdb.QuestDBClient
	Postgres postgresql.PostgreSQLClient
	Redis    redis.Client
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BootstrapConfig) *Bootstrap {
	b.Config = config.Config
	b.Logger = config.Logger
	b.QuestDB = config.QuestDB
	b.Postgres = config.Postgres
	b.Redis = config.Redis

	b.registerRegistry()
	b.registerRepository()
	b.registerUsecase()

	return b
}

// Close releases what the bootstrap created. Clients passed in stay open.
func (b *Bootstrap) Close() {
	if b.Usecase.Cache != nil {
		b.Usecase.Cache.Close()
	}
	if b.Publisher != nil {
		if err := b.Publisher.Close(); err != nil {
			b.Logger.Error(err)
		}
	}
}
