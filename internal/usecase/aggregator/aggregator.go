package aggregator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	aggregationv1 "github.com/muhammadchandra19/historical-data/internal/domain/aggregation/v1"
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/usecase/cache"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/shopspring/decimal"
)

// Aggregator rolls stored bars up into coarser frequencies.
type Aggregator struct {
	bars   barv1.BarRepository
	cache  ResultCache
	config Config
	logger logger.Interface
}

// NewAggregator creates an Aggregator. resultCache may be nil to disable memoization.
func NewAggregator(bars barv1.BarRepository, resultCache ResultCache, config Config, logger logger.Interface) *Aggregator {
	return &Aggregator{
		bars:   bars,
		cache:  resultCache,
		config: config.withDefaults(),
		logger: logger,
	}
}

type aggregationPlan struct {
	symbol     string
	source     interval.Interval
	target     interval.Interval
	method     aggregationv1.Method
	start, end time.Time
}

// Aggregate reads source bars in [StartDate, EndDate] and buckets them into
// the target frequency. Results are memoized; a memoized result has CacheHit set.
func (a *Aggregator) Aggregate(ctx context.Context, req aggregationv1.Request) (*aggregationv1.Result, error) {
	p, err := a.plan(req)
	if err != nil {
		return nil, err
	}

	key := cache.AggregationKey(p.symbol, p.source.Name, p.target.Name, p.start, p.end, string(p.method))
	if result, ok := a.cached(ctx, key); ok {
		return result, nil
	}

	if a.bars == nil {
		return nil, errors.NewErrorDetails("bar store is not configured", string(errors.AggregationError), "")
	}

	source, err := a.bars.QueryBars(ctx, p.symbol, p.source.Name, p.start, p.end)
	if err != nil {
		a.logger.ErrorContext(ctx, err,
			logger.NewField("symbol", p.symbol),
			logger.NewField("frequency", p.source.Name),
		)
		return nil, errors.TracerFromError(errors.NewErrorDetailsf(errors.AggregationError, "",
			"failed to read %s %s bars: %v", p.symbol, p.source.Name, err))
	}

	series := make(barv1.Series, len(source))
	copy(series, source)
	series.SortByTime()

	bars := Bucket(series, p.target, p.method)
	gaps := DetectGaps(p.symbol, p.source, series.Timestamps(), GapOptions{Tolerance: a.config.GapTolerance})

	result := &aggregationv1.Result{
		Symbol:          p.symbol,
		SourceFrequency: p.source.Name,
		TargetFrequency: p.target.Name,
		Method:          p.method,
		StartDate:       p.start,
		EndDate:         p.end,
		Bars:            bars,
		Gaps:            gaps,
		Statistics: aggregationv1.Statistics{
			SourceBars: len(series),
			OutputBars: len(bars),
			GapCount:   len(gaps),
		},
	}
	if len(bars) > 0 {
		result.Statistics.CompressionRatio = float64(len(series)) / float64(len(bars))
	}

	a.logger.InfoContext(ctx, "Aggregation completed",
		logger.NewField("symbol", p.symbol),
		logger.NewField("source", p.source.Name),
		logger.NewField("target", p.target.Name),
		logger.NewField("source_bars", len(series)),
		logger.NewField("output_bars", len(bars)),
	)

	a.memoize(ctx, key, result)
	return result, nil
}

func (a *Aggregator) plan(req aggregationv1.Request) (*aggregationPlan, error) {
	violations := errors.NewBaseError()

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	switch {
	case symbol == "":
		violations.AddErrorDetails(errors.NewErrorDetails("symbol is required", string(errors.ValidationError), "symbol"))
	case !requestv1.IsValidSymbol(symbol):
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.InvalidSymbolError, "symbol",
			"symbol %q has invalid format", req.Symbol))
	}

	source, srcErr := resolve(req.SourceFrequency, "sourceFrequency", violations)
	target, tgtErr := resolve(req.TargetFrequency, "targetFrequency", violations)
	if srcErr == nil && tgtErr == nil && !target.IsCoarserThan(source) {
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.AggregationPreconditionError, "targetFrequency",
			"target frequency %s must be coarser than source frequency %s", target.Name, source.Name))
	}

	method := req.Method
	if method == "" {
		method = aggregationv1.MethodOHLCV
	}
	if !method.IsValid() {
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.ValidationError, "method",
			"method %q is not one of %s, %s", req.Method, aggregationv1.MethodOHLCV, aggregationv1.MethodVWAP))
	}

	start, end := req.StartDate.UTC(), req.EndDate.UTC()
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		violations.AddErrorDetails(errors.NewErrorDetails("startDate and endDate are required", string(errors.InvalidDateRangeError), "startDate"))
	} else if end.Before(start) {
		violations.AddErrorDetails(errors.NewErrorDetails("startDate must not be after endDate", string(errors.InvalidDateRangeError), "startDate"))
	}

	if err := violations.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &aggregationPlan{symbol: symbol, source: source, target: target, method: method, start: start, end: end}, nil
}

func resolve(name, field string, violations *errors.BaseError) (interval.Interval, error) {
	canonical, ok := interval.Normalize(strings.TrimSpace(name))
	if !ok {
		err := errors.NewErrorDetailsf(errors.InvalidFrequencyError, field,
			"frequency %q is not one of %s", name, strings.Join(interval.GetAllIntervalNames(), ", "))
		violations.AddErrorDetails(err)
		return interval.Interval{}, err
	}
	return interval.GetInterval(canonical)
}

func (a *Aggregator) cached(ctx context.Context, key string) (*aggregationv1.Result, bool) {
	if a.cache == nil {
		return nil, false
	}
	payload, ok := a.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var result aggregationv1.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		a.logger.WarnContext(ctx, "Discarding undecodable aggregation result",
			logger.NewField("key", key),
			logger.NewField("error", err.Error()),
		)
		return nil, false
	}
	result.CacheHit = true
	return &result, true
}

func (a *Aggregator) memoize(ctx context.Context, key string, result *aggregationv1.Result) {
	if a.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		a.logger.WarnContext(ctx, "Aggregation result not cached", logger.NewField("error", err.Error()))
		return
	}
	if err := a.cache.Set(ctx, key, payload, a.config.CacheTTL); err != nil {
		a.logger.WarnContext(ctx, "Aggregation result not cached",
			logger.NewField("key", key),
			logger.NewField("error", err.Error()),
		)
	}
}

// bucket accumulates the bars of one target period.
type bucket struct {
	bar     aggregationv1.Bar
	volume  decimal.Decimal
	pv      decimal.Decimal
	typical decimal.Decimal
}

func newBucket(start time.Time, b barv1.Bar) *bucket {
	acc := &bucket{
		bar: aggregationv1.Bar{Bar: barv1.Bar{
			Timestamp: start,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
		}},
	}
	acc.add(b)
	return acc
}

func (acc *bucket) add(b barv1.Bar) {
	acc.bar.High = max(acc.bar.High, b.High)
	acc.bar.Low = min(acc.bar.Low, b.Low)
	acc.bar.Close = b.Close
	acc.bar.Volume += b.Volume
	if b.OpenInterest != nil {
		oi := *b.OpenInterest
		acc.bar.OpenInterest = &oi
	}
	if b.ContractMonth != "" {
		acc.bar.ContractMonth = b.ContractMonth
	}
	acc.bar.SourceBars++

	tp := decimal.NewFromFloat(b.High).Add(decimal.NewFromFloat(b.Low)).Add(decimal.NewFromFloat(b.Close)).Div(decimal.NewFromInt(3))
	vol := decimal.NewFromInt(b.Volume)
	acc.typical = acc.typical.Add(tp)
	acc.volume = acc.volume.Add(vol)
	acc.pv = acc.pv.Add(tp.Mul(vol))
}

func (acc *bucket) vwap() float64 {
	if acc.volume.IsZero() {
		return acc.typical.Div(decimal.NewFromInt(int64(acc.bar.SourceBars))).Round(6).InexactFloat64()
	}
	return acc.pv.Div(acc.volume).Round(6).InexactFloat64()
}

// Bucket folds a time-ordered series into target buckets. A new output bar
// starts whenever the bucket start changes, so output is ordered by bucket.
func Bucket(series barv1.Series, target interval.Interval, method aggregationv1.Method) []aggregationv1.Bar {
	out := []aggregationv1.Bar{}
	var cur *bucket

	flush := func() {
		if cur == nil {
			return
		}
		if method == aggregationv1.MethodVWAP {
			v := cur.vwap()
			cur.bar.VWAP = &v
		}
		out = append(out, cur.bar)
	}

	for _, b := range series {
		start := target.CalculateBucketTime(b.Timestamp)
		if cur != nil && cur.bar.Timestamp.Equal(start) {
			cur.add(b)
			continue
		}
		flush()
		cur = newBucket(start, b)
	}
	flush()
	return out
}
