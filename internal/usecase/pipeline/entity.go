package pipeline

import (
	aggregationv1 "github.com/muhammadchandra19/historical-data/internal/domain/aggregation/v1"
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/usecase/cache"
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
)

// SymbolStatus is the outcome of one symbol within a request.
type SymbolStatus string

const (
	// StatusSuccess means bars were returned, possibly none.
	StatusSuccess SymbolStatus = "success"
	// StatusFailed means the symbol could not be fetched; Bars is empty.
	StatusFailed SymbolStatus = "failed"
)

// SymbolResult is the per-symbol part of a HistoricalResponse.
type SymbolResult struct {
	Symbol string              `json:"symbol"`
	Status SymbolStatus        `json:"status"`
	Source barv1.Source        `json:"source"`
	Bars   []barv1.Bar         `json:"bars"`
	Gaps   []aggregationv1.Gap `json:"gaps"`
	Error  string              `json:"error,omitempty"`
	// Stored is how many bars were newly written to the bar store.
	Stored int64 `json:"stored"`
}

// HistoricalResponse answers FetchHistorical.
type HistoricalResponse struct {
	RequestID string                `json:"requestId"`
	Request   requestv1.DataRequest `json:"request"`
	Results   []SymbolResult        `json:"results"`
	Warnings  []string              `json:"warnings,omitempty"`
	TotalBars int                   `json:"totalBars"`
	CacheHit  bool                  `json:"cacheHit"`
}

// Succeeded reports whether every symbol succeeded.
func (r *HistoricalResponse) Succeeded() bool {
	for _, res := range r.Results {
		if res.Status != StatusSuccess {
			return false
		}
	}
	return true
}

// Stats is the pipeline diagnostics snapshot.
type Stats struct {
	RequestsServed int64                             `json:"requestsServed"`
	CacheHitRate   float64                           `json:"cacheHitRate"`
	APICallsMade   int64                             `json:"apiCallsMade"`
	CircuitState   circuitbreaker.State              `json:"circuitState"`
	Cache          cache.Stats                       `json:"cache"`
	Breakers       map[string]circuitbreaker.Metrics `json:"breakers,omitempty"`
}
