package bootstrap

import (
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/provider"
	"github.com/muhammadchandra19/historical-data/internal/usecase/aggregator"
	"github.com/muhammadchandra19/historical-data/internal/usecase/cache"
	"github.com/muhammadchandra19/historical-data/internal/usecase/fetcher"
	"github.com/muhammadchandra19/historical-data/internal/usecase/pipeline"
	"github.com/muhammadchandra19/historical-data/internal/usecase/validator"
)

// Usecase is the usecase for the historical data pipeline.
type Usecase struct {
	Cache      *cache.Cache
	Fetcher    *fetcher.Fetcher
	Validator  *validator.Validator
	Aggregator *aggregator.Aggregator
	Pipeline   *pipeline.Pipeline
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	var cacheOpts []cache.Option
	if b.Repository.CacheMirror != nil {
		cacheOpts = append(cacheOpts, cache.WithMirror(b.Repository.CacheMirror))
	}
	b.Usecase.Cache = cache.New(b.Config.Cache, b.Logger, cacheOpts...)

	breaker := b.Registry.Breakers.GetOrCreate(b.Config.Fetcher.BreakerName, b.Config.CircuitBreaker)
	b.Usecase.Fetcher = fetcher.NewFetcher(provider.NewClient(b.Config.Provider, b.Logger), breaker, b.Config.Fetcher, b.Logger)

	b.Usecase.Validator = validator.NewValidator(b.Config.Validation, b.Repository.SavedQueryRepository, b.Logger)

	var aggregatorCache aggregator.ResultCache = b.Usecase.Cache
	b.Usecase.Aggregator = aggregator.NewAggregator(b.Repository.BarRepository, aggregatorCache, b.Config.Aggregator, b.Logger)

	opts := []pipeline.Option{
		pipeline.WithPublisher(b.Publisher),
		pipeline.WithRegistry(b.Registry.Breakers),
	}
	if b.Repository.BarRepository != nil {
		opts = append(opts, pipeline.WithBarStore(b.Repository.BarRepository))
	}
	b.Usecase.Pipeline = pipeline.NewPipeline(
		b.Usecase.Validator,
		b.Usecase.Fetcher,
		b.Usecase.Cache,
		b.Usecase.Aggregator,
		b.Config.Pipeline,
		b.Logger,
		opts...,
	)
}
