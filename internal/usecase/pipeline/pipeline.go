package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	aggregationv1 "github.com/muhammadchandra19/historical-data/internal/domain/aggregation/v1"
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/usecase/aggregator"
	"github.com/muhammadchandra19/historical-data/internal/usecase/cache"
	"github.com/muhammadchandra19/historical-data/internal/usecase/fetcher"
	"github.com/muhammadchandra19/historical-data/internal/usecase/validator"
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/util"
)

// Pipeline composes validation, caching, fetching, persistence and
// aggregation behind one API.
type Pipeline struct {
	validator  *validator.Validator
	fetcher    *fetcher.Fetcher
	cache      *cache.Cache
	aggregator *aggregator.Aggregator
	bars       barv1.BarRepository
	publisher  barv1.EventPublisher
	registry   *circuitbreaker.Registry
	config     Config
	logger     logger.Interface

	requestsServed atomic.Int64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBarStore persists fetched upstream bars.
func WithBarStore(bars barv1.BarRepository) Option {
	return func(p *Pipeline) {
		p.bars = bars
	}
}

// WithPublisher announces persisted bars.
func WithPublisher(publisher barv1.EventPublisher) Option {
	return func(p *Pipeline) {
		p.publisher = publisher
	}
}

// WithRegistry includes every registered breaker in Stats.
func WithRegistry(registry *circuitbreaker.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	validator *validator.Validator,
	fetcher *fetcher.Fetcher,
	cache *cache.Cache,
	aggregator *aggregator.Aggregator,
	config Config,
	logger logger.Interface,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		validator:  validator,
		fetcher:    fetcher,
		cache:      cache,
		aggregator: aggregator,
		config:     config,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchHistorical validates req, then serves it from cache or fetches every
// symbol. A request failing validation executes nothing. Otherwise each symbol
// reports its own status and a failing symbol never fails the others.
func (p *Pipeline) FetchHistorical(ctx context.Context, req requestv1.DataRequest) (*HistoricalResponse, error) {
	ctx = util.EnsureRequestID(ctx)
	p.requestsServed.Add(1)

	normalized, warnings, err := p.validator.Validate(req)
	if err != nil {
		p.logger.InfoContext(ctx, "Request rejected", logger.NewField("error", err.Error()))
		return nil, err
	}

	response := &HistoricalResponse{
		RequestID: util.GetRequestID(ctx),
		Request:   normalized.ToDataRequest(),
		Warnings:  warnings,
	}

	key := cache.RequestKey(*normalized)
	if results, ok := p.cachedResults(ctx, key, normalized.Symbols); ok {
		response.Results = results
		response.CacheHit = true
		response.TotalBars = totalBars(results)
		return response, nil
	}

	iv, err := interval.GetInterval(normalized.Frequency)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	fetched, failures := p.fetcher.FetchMany(ctx, fetcher.ManyRequest{
		Symbols:              normalized.Symbols,
		StartDate:            normalized.StartDate,
		EndDate:              normalized.EndDate,
		Frequency:            normalized.Frequency,
		IncludeExtendedHours: normalized.IncludeExtendedHours,
		MaxRecords:           normalized.MaxRecords,
	}, func(symbol string, completed, total int, err error) {
		p.logger.DebugContext(ctx, "Symbol fetched",
			logger.NewField("symbol", symbol),
			logger.NewField("completed", completed),
			logger.NewField("total", total),
		)
	})

	cacheable := true
	for _, symbol := range normalized.Symbols {
		result := SymbolResult{
			Symbol: symbol,
			Status: StatusSuccess,
			Source: barv1.SourceUpstream,
			Bars:   []barv1.Bar{},
			Gaps:   []aggregationv1.Gap{},
		}
		if res, ok := fetched[symbol]; ok && res != nil {
			result.Source = res.Source
			result.Bars = res.Bars
		}

		if err, failed := failures[symbol]; failed {
			result.Status = StatusFailed
			result.Error = err.Error()
			cacheable = false
		} else {
			result.Gaps = aggregator.DetectGaps(symbol, iv, barv1.Series(result.Bars).Timestamps(),
				aggregator.GapOptions{SkipWeekends: p.config.SkipWeekendGaps})
			result.Stored = p.persist(ctx, symbol, normalized.Frequency, result.Source, result.Bars)
		}
		if result.Source == barv1.SourceMock {
			cacheable = false
		}

		response.Results = append(response.Results, result)
		response.TotalBars += len(result.Bars)
	}

	if cacheable {
		p.storeResults(ctx, key, response.Results)
	}

	p.logger.InfoContext(ctx, "Historical request served",
		logger.NewField("symbols", len(normalized.Symbols)),
		logger.NewField("failed", len(failures)),
		logger.NewField("total_bars", response.TotalBars),
	)
	return response, nil
}

func totalBars(results []SymbolResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Bars)
	}
	return n
}

// cachedResults decodes a cached response and returns it in symbols order.
func (p *Pipeline) cachedResults(ctx context.Context, key string, symbols []string) ([]SymbolResult, bool) {
	payload, ok := p.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var results []SymbolResult
	if err := json.Unmarshal(payload, &results); err != nil {
		p.logger.WarnContext(ctx, "Discarding undecodable cached response",
			logger.NewField("key", key),
			logger.NewField("error", err.Error()),
		)
		return nil, false
	}

	bySymbol := make(map[string]SymbolResult, len(results))
	for _, r := range results {
		r.Source = barv1.SourceCache
		r.Stored = 0
		bySymbol[r.Symbol] = r
	}

	ordered := make([]SymbolResult, 0, len(symbols))
	for _, symbol := range symbols {
		r, ok := bySymbol[symbol]
		if !ok {
			return nil, false
		}
		ordered = append(ordered, r)
	}
	return ordered, true
}

func (p *Pipeline) storeResults(ctx context.Context, key string, results []SymbolResult) {
	payload, err := json.Marshal(results)
	if err != nil {
		p.logger.WarnContext(ctx, "Response not cached", logger.NewField("error", err.Error()))
		return
	}
	if err := p.cache.Set(ctx, key, payload, p.config.ResponseTTL); err != nil {
		p.logger.WarnContext(ctx, "Response not cached",
			logger.NewField("key", key),
			logger.NewField("error", err.Error()),
		)
	}
}

// persist stores upstream bars and announces them. Failures are logged only.
func (p *Pipeline) persist(ctx context.Context, symbol, frequency string, source barv1.Source, bars []barv1.Bar) int64 {
	if !p.config.PersistBars || p.bars == nil || source != barv1.SourceUpstream || len(bars) == 0 {
		return 0
	}

	inserted, err := p.bars.InsertBars(ctx, symbol, frequency, source, bars)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to persist bars",
			logger.NewField("symbol", symbol),
			logger.NewField("error", err.Error()),
		)
		return 0
	}

	if p.publisher != nil {
		from, to, _ := barv1.Series(bars).Span()
		if err := p.publisher.PublishBarsIngested(ctx, barv1.BarsIngested{
			RequestID: util.GetRequestID(ctx),
			Symbol:    symbol,
			Frequency: frequency,
			Source:    source,
			Count:     inserted,
			From:      from,
			To:        to,
		}); err != nil {
			p.logger.WarnContext(ctx, "Failed to publish bars ingested",
				logger.NewField("symbol", symbol),
				logger.NewField("error", err.Error()),
			)
		}
	}
	return inserted
}

// Aggregate re-buckets stored bars into a coarser frequency.
func (p *Pipeline) Aggregate(ctx context.Context, req aggregationv1.Request) (*aggregationv1.Result, error) {
	p.requestsServed.Add(1)
	return p.aggregator.Aggregate(util.EnsureRequestID(ctx), req)
}

// SaveQuery validates and stores a request under name.
func (p *Pipeline) SaveQuery(ctx context.Context, name string, req requestv1.DataRequest, favorite bool) (int64, error) {
	return p.validator.Save(ctx, name, req, favorite)
}

// LoadQuery returns the request stored under id and records its use.
func (p *Pipeline) LoadQuery(ctx context.Context, id int64) (*requestv1.SavedQuery, error) {
	return p.validator.Load(ctx, id)
}

// DeleteQuery removes a saved query.
func (p *Pipeline) DeleteQuery(ctx context.Context, id int64) error {
	return p.validator.Delete(ctx, id)
}

// ListQueries returns saved queries, favorites first.
func (p *Pipeline) ListQueries(ctx context.Context, favoritesOnly bool) ([]*requestv1.SavedQuery, error) {
	return p.validator.List(ctx, favoritesOnly)
}

// ToggleFavorite flips a saved query's favorite flag.
func (p *Pipeline) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	return p.validator.ToggleFavorite(ctx, id)
}

// AnalyzePatterns reports request popularity.
func (p *Pipeline) AnalyzePatterns() validator.PatternReport {
	return p.validator.AnalyzePatterns()
}

// InvalidateSymbol drops every cached response that includes symbol.
func (p *Pipeline) InvalidateSymbol(ctx context.Context, symbol string) (int, error) {
	return p.cache.Invalidate(ctx, cache.SymbolPattern(strings.ToUpper(strings.TrimSpace(symbol))))
}

// Stats returns a diagnostics snapshot.
func (p *Pipeline) Stats() Stats {
	cacheStats := p.cache.Stats()
	stats := Stats{
		RequestsServed: p.requestsServed.Load(),
		CacheHitRate:   cacheStats.HitRate,
		APICallsMade:   p.fetcher.APICalls(),
		CircuitState:   p.fetcher.Breaker().State(),
		Cache:          cacheStats,
	}
	if p.registry != nil {
		stats.Breakers = p.registry.Snapshot()
	}
	return stats
}
