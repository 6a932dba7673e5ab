package fetcher

import (
	"context"
	"sync/atomic"
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	providerv1 "github.com/muhammadchandra19/historical-data/internal/domain/provider/v1"
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

// SymbolRequest asks for one symbol's bars. Nil dates fall back to the
// frequency's default lookback ending now.
type SymbolRequest struct {
	Symbol               string
	StartDate            *time.Time
	EndDate              *time.Time
	Frequency            string
	IncludeExtendedHours bool
	MaxRecords           *int
}

// ManyRequest asks for several symbols sharing the same range and frequency.
type ManyRequest struct {
	Symbols              []string
	StartDate            *time.Time
	EndDate              *time.Time
	Frequency            string
	IncludeExtendedHours bool
	MaxRecords           *int
}

// Result is a fetched series and where it came from.
type Result struct {
	Bars   []barv1.Bar
	Source barv1.Source
}

// ProgressFunc is called after each symbol of a FetchMany completes.
type ProgressFunc func(symbol string, completed, total int, err error)

// Fetcher retrieves bars from the upstream provider behind a circuit
// breaker and a rate limiter.
type Fetcher struct {
	provider providerv1.Provider
	breaker  *circuitbreaker.Breaker
	limiter  *RateLimiter
	mock     MockGenerator
	config   Config
	logger   logger.Interface
	now      func() time.Time
	apiCalls atomic.Int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock replaces time.Now for range resolution.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// WithRateLimiter replaces the limiter built from Config.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = limiter
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(provider providerv1.Provider, breaker *circuitbreaker.Breaker, config Config, logger logger.Interface, opts ...Option) *Fetcher {
	f := &Fetcher{
		provider: provider,
		breaker:  breaker,
		limiter:  NewRateLimiter(config.RateLimitInterval),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// APICalls returns the number of upstream calls attempted.
func (f *Fetcher) APICalls() int64 {
	return f.apiCalls.Load()
}

// Breaker returns the breaker guarding upstream calls.
func (f *Fetcher) Breaker() *circuitbreaker.Breaker {
	return f.breaker
}

// FetchSymbol returns one symbol's bars in time order.
func (f *Fetcher) FetchSymbol(ctx context.Context, req SymbolRequest) ([]barv1.Bar, error) {
	result, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Bars, nil
}

// Fetch returns one symbol's bars and their source. When the circuit is
// open and demo mode is on, generated bars are returned instead of an error.
func (f *Fetcher) Fetch(ctx context.Context, req SymbolRequest) (*Result, error) {
	iv, err := interval.GetInterval(req.Frequency)
	if err != nil {
		return nil, errors.NewErrorDetailsf(errors.InvalidFrequencyError, "frequency", "unsupported frequency %q", req.Frequency)
	}

	upstreamReq := f.upstreamRequest(req, iv)

	// Queueing on the limiter must not count against the breaker's
	// request timeout or its failure tally.
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	rows, err := circuitbreaker.Do(ctx, f.breaker, func(ctx context.Context) ([]providerv1.Row, error) {
		f.apiCalls.Add(1)
		return f.provider.FetchBars(ctx, upstreamReq)
	})
	if err != nil {
		if f.config.DemoMode && errors.HasCode(err, errors.CircuitOpenError) {
			return f.generate(ctx, req, iv), nil
		}
		return nil, err
	}

	bars := f.toBars(ctx, req.Symbol, rows)
	return &Result{
		Bars:   trim(bars, req.MaxRecords),
		Source: barv1.SourceUpstream,
	}, nil
}

// FetchMany fetches every symbol independently. A failing symbol gets an
// empty series and an entry in the error map; the others are unaffected.
func (f *Fetcher) FetchMany(ctx context.Context, req ManyRequest, progress ProgressFunc) (map[string]*Result, map[string]error) {
	results := make(map[string]*Result, len(req.Symbols))
	failures := make(map[string]error)

	for i, symbol := range req.Symbols {
		var (
			result *Result
			err    error
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			result, err = f.Fetch(ctx, SymbolRequest{
				Symbol:               symbol,
				StartDate:            req.StartDate,
				EndDate:              req.EndDate,
				Frequency:            req.Frequency,
				IncludeExtendedHours: req.IncludeExtendedHours,
				MaxRecords:           req.MaxRecords,
			})
		}

		if err != nil {
			f.logger.WarnContext(ctx, "Failed to fetch symbol",
				logger.NewField("symbol", symbol),
				logger.NewField("error", err.Error()),
			)
			failures[symbol] = err
			result = &Result{Bars: []barv1.Bar{}, Source: barv1.SourceUpstream}
		}
		results[symbol] = result

		if progress != nil {
			progress(symbol, i+1, len(req.Symbols), err)
		}
	}

	return results, failures
}

func (f *Fetcher) resolveRange(req SymbolRequest, iv interval.Interval) (time.Time, time.Time) {
	end := f.now().UTC()
	if req.EndDate != nil {
		end = req.EndDate.UTC()
	}
	start := end.Add(-iv.DefaultLookback())
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	return start, end
}

func (f *Fetcher) upstreamRequest(req SymbolRequest, iv interval.Interval) providerv1.Request {
	upstream := providerv1.Request{
		Symbol:               req.Symbol,
		Interval:             iv.Name,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		IncludeExtendedHours: req.IncludeExtendedHours,
	}
	if req.StartDate == nil {
		upstream.DaysBack = int(iv.DefaultLookback() / (24 * time.Hour))
	}
	return upstream
}

func (f *Fetcher) generate(ctx context.Context, req SymbolRequest, iv interval.Interval) *Result {
	start, end := f.resolveRange(req, iv)
	bars := f.mock.Generate(req.Symbol, iv, start, end)

	f.logger.WarnContext(ctx, "Circuit open, serving generated bars",
		logger.NewField("symbol", req.Symbol),
		logger.NewField("frequency", iv.Name),
		logger.NewField("bars", len(bars)),
	)

	return &Result{
		Bars:   trim(bars, req.MaxRecords),
		Source: barv1.SourceMock,
	}
}

// toBars maps upstream rows to bars, dropping rows that are incomplete or
// violate the OHLC invariant.
func (f *Fetcher) toBars(ctx context.Context, symbol string, rows []providerv1.Row) []barv1.Bar {
	bars := make(barv1.Series, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		if row.Open == nil || row.High == nil || row.Low == nil || row.Close == nil || row.Volume == nil {
			dropped++
			continue
		}
		bar := barv1.Bar{
			Timestamp: row.Timestamp.UTC(),
			Open:      *row.Open,
			High:      *row.High,
			Low:       *row.Low,
			Close:     *row.Close,
			Volume:    *row.Volume,
		}
		if err := bar.Validate(); err != nil {
			dropped++
			continue
		}
		bars = append(bars, bar)
	}

	if dropped > 0 {
		f.logger.WarnContext(ctx, "Dropped invalid upstream rows",
			logger.NewField("symbol", symbol),
			logger.NewField("dropped", dropped),
			logger.NewField("kept", len(bars)),
		)
	}

	bars.SortByTime()
	return bars
}

func trim(bars []barv1.Bar, maxRecords *int) []barv1.Bar {
	if maxRecords == nil {
		return bars
	}
	return barv1.Series(bars).Latest(*maxRecords)
}
