package v1

import (
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
)

// Method selects how buckets are summarised.
type Method string

const (
	// MethodOHLCV produces plain OHLCV buckets.
	MethodOHLCV Method = "ohlcv"
	// MethodVWAP additionally computes the volume-weighted typical price.
	MethodVWAP Method = "vwap"
)

// IsValid reports whether m is a supported method.
func (m Method) IsValid() bool {
	return m == MethodOHLCV || m == MethodVWAP
}

// Request describes a re-aggregation of stored bars into a coarser frequency.
type Request struct {
	Symbol          string    `json:"symbol"`
	SourceFrequency string    `json:"sourceFrequency"`
	TargetFrequency string    `json:"targetFrequency"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Method          Method    `json:"method"`
}

// Bar is one output bucket.
type Bar struct {
	barv1.Bar
	VWAP       *float64 `json:"vwap,omitempty"`
	SourceBars int      `json:"sourceBars"`
}

// Statistics summarises one aggregation run.
type Statistics struct {
	SourceBars       int     `json:"sourceBars"`
	OutputBars       int     `json:"outputBars"`
	GapCount         int     `json:"gapCount"`
	CompressionRatio float64 `json:"compressionRatio"`
}

// Result is the outcome of an aggregation.
type Result struct {
	Symbol          string     `json:"symbol"`
	SourceFrequency string     `json:"sourceFrequency"`
	TargetFrequency string     `json:"targetFrequency"`
	Method          Method     `json:"method"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	Bars            []Bar      `json:"bars"`
	Gaps            []Gap      `json:"gaps"`
	Statistics      Statistics `json:"statistics"`
	CacheHit        bool       `json:"cacheHit"`
}
