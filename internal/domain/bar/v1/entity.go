package v1

import (
	"fmt"
	"sort"
	"time"
)

// Source identifies where a bar series came from.
type Source string

const (
	// SourceUpstream is a series returned by the data provider.
	SourceUpstream Source = "upstream"
	// SourceMock is a series produced by the deterministic generator.
	SourceMock Source = "mock"
	// SourceCache is a series served from the cache.
	SourceCache Source = "cache"
)

// Bar represents one OHLCV observation for a bucket starting at Timestamp.
type Bar struct {
	Timestamp     time.Time `json:"timestamp"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        int64     `json:"volume"`
	OpenInterest  *int64    `json:"openInterest,omitempty"`
	ContractMonth string    `json:"contractMonth,omitempty"`
}

// Validate checks low <= min(open, close) <= max(open, close) <= high with positive prices.
func (b Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return fmt.Errorf("bar has no timestamp")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar at %s has non-positive price", b.Timestamp.Format(time.RFC3339))
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar at %s has negative volume", b.Timestamp.Format(time.RFC3339))
	}
	if b.Low > min(b.Open, b.Close) || max(b.Open, b.Close) > b.High {
		return fmt.Errorf("bar at %s violates low <= open,close <= high", b.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// TypicalPrice returns (high + low + close) / 3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Series is an ordered list of bars.
type Series []Bar

// SortByTime orders the series by ascending timestamp.
func (s Series) SortByTime() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Timestamp.Before(s[j].Timestamp)
	})
}

// Timestamps returns the bar timestamps in series order.
func (s Series) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i, b := range s {
		out[i] = b.Timestamp
	}
	return out
}

// Latest keeps the n most recent bars of a time-ordered series.
func (s Series) Latest(n int) Series {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Span returns the first and last timestamps. ok is false for an empty series.
func (s Series) Span() (from, to time.Time, ok bool) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s[0].Timestamp, s[len(s)-1].Timestamp, true
}
