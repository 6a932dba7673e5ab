package validator

import (
	"fmt"
	"strings"
	"time"

	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Validator checks and normalizes data requests and manages saved queries.
type Validator struct {
	config   Config
	queries  requestv1.SavedQueryRepository
	logger   logger.Interface
	now      func() time.Time
	patterns *patternTracker
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a Validator. queries may be nil when saved queries are not used.
func NewValidator(config Config, queries requestv1.SavedQueryRepository, logger logger.Interface, opts ...Option) *Validator {
	v := &Validator{
		config:   config.withDefaults(),
		queries:  queries,
		logger:   logger,
		now:      time.Now,
		patterns: newPatternTracker(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every rule and returns the canonical request with any
// warnings. All violations are reported together in one BaseError.
func (v *Validator) Validate(req requestv1.DataRequest) (*requestv1.NormalizedRequest, []string, error) {
	violations := errors.NewBaseError()
	var warnings []string
	now := v.now().UTC()

	symbols := v.normalizeSymbols(req.Symbols, violations)

	frequency, ok := interval.Normalize(strings.TrimSpace(req.Frequency))
	if !ok {
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.InvalidFrequencyError, "frequency",
			"frequency %q is not one of %s", req.Frequency, strings.Join(interval.GetAllIntervalNames(), ", ")))
	}

	start, end, dateWarnings := v.normalizeDates(req.StartDate, req.EndDate, now, clampBoundary(frequency, now), violations)
	warnings = append(warnings, dateWarnings...)

	var maxRecords *int
	if req.MaxRecords != nil {
		limit := *req.MaxRecords
		switch {
		case limit <= 0:
			violations.AddErrorDetails(errors.NewErrorDetailsf(errors.InvalidMaxRecordsError, "maxRecords",
				"maxRecords must be positive, got %d", limit))
		case limit > v.config.MaxRecords:
			warnings = append(warnings, fmt.Sprintf("maxRecords %d clamped to %d", limit, v.config.MaxRecords))
			limit = v.config.MaxRecords
		}
		maxRecords = &limit
	}

	if err := violations.ErrorOrNil(); err != nil {
		return nil, nil, err
	}

	normalized := &requestv1.NormalizedRequest{
		Symbols:              symbols,
		StartDate:            start,
		EndDate:              end,
		Frequency:            frequency,
		IncludeExtendedHours: req.IncludeExtendedHours,
		MaxRecords:           maxRecords,
	}
	v.patterns.record(normalized, now)

	for _, w := range warnings {
		v.logger.Warn("Request normalized", logger.NewField("warning", w))
	}

	return normalized, warnings, nil
}

func (v *Validator) normalizeSymbols(raw []string, violations *errors.BaseError) []string {
	if len(raw) == 0 {
		violations.AddErrorDetails(errors.NewErrorDetails("at least one symbol is required", string(errors.EmptySymbolsError), "symbols"))
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	symbols := make([]string, 0, len(raw))
	for _, s := range raw {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}

		if !requestv1.IsValidSymbol(symbol) {
			violations.AddErrorDetails(errors.NewErrorDetailsf(errors.InvalidSymbolError, "symbols",
				"symbol %q has invalid format", s))
			continue
		}
		symbols = append(symbols, symbol)
	}

	if len(seen) > v.config.MaxSymbols {
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.TooManySymbolsError, "symbols",
			"%d symbols requested, at most %d allowed", len(seen), v.config.MaxSymbols))
	}
	return symbols
}

// clampBoundary is where a future endDate is clamped: the start of the
// frequency's bucket holding now, so repeated requests within one bucket
// normalize to the same range. Unknown frequencies clamp to now.
func clampBoundary(frequency string, now time.Time) time.Time {
	iv, err := interval.GetInterval(frequency)
	if err != nil {
		return now
	}
	return iv.CalculateBucketTime(now)
}

func (v *Validator) normalizeDates(startIn, endIn *time.Time, now, boundary time.Time, violations *errors.BaseError) (*time.Time, *time.Time, []string) {
	var (
		start, end *time.Time
		warnings   []string
	)

	if startIn != nil {
		s := startIn.UTC()
		if s.After(now) {
			violations.AddErrorDetails(errors.NewErrorDetailsf(errors.FutureStartDateError, "startDate",
				"startDate %s is in the future", s.Format(time.RFC3339)))
		}
		start = &s
	}

	if endIn != nil {
		e := endIn.UTC()
		if e.After(now) {
			e = boundary
			if startIn != nil && !startIn.UTC().Before(e) {
				e = now
			}
			warnings = append(warnings, fmt.Sprintf("endDate %s is in the future, clamped to now (%s)",
				endIn.UTC().Format(time.RFC3339), e.Format(time.RFC3339)))
		}
		end = &e
	}

	if start == nil {
		return start, end, warnings
	}

	effectiveEnd := now
	if end != nil {
		effectiveEnd = *end
	}
	if end != nil && !start.Before(*end) {
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.InvalidDateRangeError, "startDate",
			"startDate %s must be before endDate %s", start.Format(time.RFC3339), end.Format(time.RFC3339)))
	} else if maxRange := time.Duration(v.config.MaxDateRangeDays) * 24 * time.Hour; effectiveEnd.Sub(*start) > maxRange {
		violations.AddErrorDetails(errors.NewErrorDetailsf(errors.DateRangeTooLongError, "startDate",
			"date range exceeds %d days", v.config.MaxDateRangeDays))
	}

	return start, end, warnings
}

// ParseDate parses a date-only, naive datetime or RFC3339 string. Values
// without a zone are taken as UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.NewErrorDetailsf(errors.InvalidDateFormatError, "date",
		"date %q is not YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC3339", value)
}
