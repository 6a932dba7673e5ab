package aggregator

import (
	"sort"
	"time"

	aggregationv1 "github.com/muhammadchandra19/historical-data/internal/domain/aggregation/v1"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/util"
)

const defaultGapTolerance = 0.1

// GapOptions tunes DetectGaps.
type GapOptions struct {
	// Tolerance is the allowed overshoot of the expected period. Zero means 10%.
	Tolerance float64
	// SkipWeekends ignores holes made only of Saturday and Sunday buckets.
	// It applies to frequencies up to 1d.
	SkipWeekends bool
}

// DetectGaps compares consecutive timestamps of a series sampled at iv and
// returns every hole longer than the expected period plus tolerance.
// It never fails; an empty or regular series yields an empty slice.
func DetectGaps(symbol string, iv interval.Interval, timestamps []time.Time, opts GapOptions) []aggregationv1.Gap {
	gaps := []aggregationv1.Gap{}
	if len(timestamps) < 2 {
		return gaps
	}

	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = defaultGapTolerance
	}
	skipWeekends := opts.SkipWeekends && iv.Rank <= interval.Interval1d.Rank

	sorted := make([]time.Time, len(timestamps))
	for i, ts := range timestamps {
		sorted[i] = ts.UTC()
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		expected := iv.NextBucket(prev).Sub(prev)
		if expected <= 0 {
			continue
		}

		limit := expected + time.Duration(float64(expected)*tolerance)
		if cur.Sub(prev) <= limit {
			continue
		}

		gap := aggregationv1.Gap{
			Symbol:    symbol,
			Frequency: iv.Name,
			GapStart:  iv.NextBucket(prev),
			GapEnd:    cur,
		}
		gap.Duration = gap.GapEnd.Sub(gap.GapStart)
		gap.ExpectedBarCount = missingBars(iv, gap.GapStart, gap.GapEnd, skipWeekends)
		if gap.ExpectedBarCount == 0 {
			continue
		}
		gap.Severity = aggregationv1.ClassifySeverity(gap.Duration)
		gaps = append(gaps, gap)
	}
	return gaps
}

// missingBars counts the bucket starts in [from, to).
func missingBars(iv interval.Interval, from, to time.Time, skipWeekends bool) int {
	n := 0
	for b := from; b.Before(to); b = iv.NextBucket(b) {
		if skipWeekends && util.IsWeekend(b) {
			continue
		}
		n++
	}
	return n
}
