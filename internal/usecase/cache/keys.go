package cache

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
)

const (
	// HistoricalPrefix starts every key derived from a data request.
	HistoricalPrefix = "historical:"
	// AggregatePrefix starts every key derived from an aggregation request.
	AggregatePrefix = "aggregate:"

	none = "none"
)

// RequestKey derives the key for a normalized request. Symbol order does not
// matter and absent fields are spelled out so distinct requests never collide.
func RequestKey(req requestv1.NormalizedRequest) string {
	symbols := append([]string(nil), req.Symbols...)
	sort.Strings(symbols)

	limit := none
	if req.MaxRecords != nil {
		limit = strconv.Itoa(*req.MaxRecords)
	}

	return fmt.Sprintf("%ssymbols=%s|start=%s|end=%s|freq=%s|ext=%t|limit=%s",
		HistoricalPrefix,
		strings.Join(symbols, ","),
		formatTime(req.StartDate),
		formatTime(req.EndDate),
		req.Frequency,
		req.IncludeExtendedHours,
		limit,
	)
}

// AggregationKey derives the key for an aggregation result.
func AggregationKey(symbol, sourceFrequency, targetFrequency string, start, end time.Time, method string) string {
	return fmt.Sprintf("%ssymbol=%s|source=%s|target=%s|start=%s|end=%s|method=%s",
		AggregatePrefix,
		symbol,
		sourceFrequency,
		targetFrequency,
		formatTime(&start),
		formatTime(&end),
		method,
	)
}

// SymbolPattern returns a pattern for Invalidate matching every request and
// aggregation key that involves symbol.
func SymbolPattern(symbol string) string {
	s := regexp.QuoteMeta(symbol)
	return `(symbols=([^|]*,)?` + s + `(,[^|]*)?\||symbol=` + s + `\|)`
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return none
	}
	return t.UTC().Format(time.RFC3339)
}
