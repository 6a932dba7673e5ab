package validator

import (
	"sort"
	"sync"
	"time"

	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
)

const topN = 10

// Range buckets for requested date spans.
const (
	RangeOpenEnded = "open_ended"
	RangeDay       = "up_to_1d"
	RangeWeek      = "up_to_1w"
	RangeMonth     = "up_to_1mo"
	RangeYear      = "up_to_1y"
	RangeLonger    = "over_1y"
)

// Count is a name with how often it was requested.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PatternReport summarizes validated requests since start.
type PatternReport struct {
	TotalRequests  int            `json:"totalRequests"`
	TopSymbols     []Count        `json:"topSymbols"`
	TopFrequencies []Count        `json:"topFrequencies"`
	RangeBuckets   map[string]int `json:"rangeBuckets"`
	// CacheWarming lists symbols requested often enough to prefetch.
	CacheWarming []string `json:"cacheWarming"`
}

type patternTracker struct {
	mu          sync.Mutex
	total       int
	symbols     map[string]int
	frequencies map[string]int
	ranges      map[string]int
}

func newPatternTracker() *patternTracker {
	return &patternTracker{
		symbols:     make(map[string]int),
		frequencies: make(map[string]int),
		ranges:      make(map[string]int),
	}
}

func (p *patternTracker) record(req *requestv1.NormalizedRequest, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total++
	for _, s := range req.Symbols {
		p.symbols[s]++
	}
	p.frequencies[req.Frequency]++
	p.ranges[rangeBucket(req.StartDate, req.EndDate, now)]++
}

func rangeBucket(start, end *time.Time, now time.Time) string {
	if start == nil {
		return RangeOpenEnded
	}
	to := now
	if end != nil {
		to = *end
	}

	day := 24 * time.Hour
	switch span := to.Sub(*start); {
	case span <= day:
		return RangeDay
	case span <= 7*day:
		return RangeWeek
	case span <= 31*day:
		return RangeMonth
	case span <= 366*day:
		return RangeYear
	default:
		return RangeLonger
	}
}

func (p *patternTracker) report(warmingThreshold int) PatternReport {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := PatternReport{
		TotalRequests:  p.total,
		TopSymbols:     top(p.symbols, topN),
		TopFrequencies: top(p.frequencies, topN),
		RangeBuckets:   make(map[string]int, len(p.ranges)),
		CacheWarming:   []string{},
	}
	for bucket, n := range p.ranges {
		report.RangeBuckets[bucket] = n
	}
	for _, c := range top(p.symbols, len(p.symbols)) {
		if c.Count >= warmingThreshold {
			report.CacheWarming = append(report.CacheWarming, c.Name)
		}
	}
	return report
}

// top returns the n highest counts, ties broken by name.
func top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for name, c := range counts {
		out = append(out, Count{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// AnalyzePatterns reports request popularity and which symbols are worth
// warming. It is advisory only.
func (v *Validator) AnalyzePatterns() PatternReport {
	return v.patterns.report(v.config.WarmingThreshold)
}
