package bootstrap

import (
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/kafka/publisher"
	savedQueryInfra "github.com/muhammadchandra19/historical-data/internal/infrastructure/postgresql/savedquery"
	barInfra "github.com/muhammadchandra19/historical-data/internal/infrastructure/questdb/bar"
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/redis/cachemirror"
)

// Repository is the repository for the historical data pipeline.
type Repository struct {
	BarRepository        barv1.BarRepository
	SavedQueryRepository requestv1.SavedQueryRepository
	CacheMirror          *cachemirror.Mirror
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	if b.QuestDB != nil {
		b.Repository.BarRepository = barInfra.NewRepository(b.QuestDB, b.Config.QuestDB.QueryTimeout, b.Logger)
	}
	if b.Postgres != nil {
		b.Repository.SavedQueryRepository = savedQueryInfra.NewRepository(b.Postgres, b.Logger)
	}
	if b.Redis != nil {
		b.Repository.CacheMirror = cachemirror.NewMirror(b.Redis, b.Config.Redis.PrefixKey, b.Logger)
	}
	b.Publisher = publisher.New(b.Config.Kafka, b.Logger)
}
