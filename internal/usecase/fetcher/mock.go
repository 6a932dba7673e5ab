package fetcher

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/util"
)

const (
	maxOpenDrift   = 0.02
	maxCloseDrift  = 0.01
	maxWickSpread  = 0.015
	baseVolume     = 1_000_000
	minVolumeScale = 0.5
	maxVolumeScale = 2.0
)

// MockGenerator produces a deterministic random walk per symbol. The same
// symbol and range always yield the same bars.
type MockGenerator struct{}

// Generate returns bars for every bucket of iv starting within [start, end].
// Weekends are skipped for daily and finer frequencies.
func (MockGenerator) Generate(symbol string, iv interval.Interval, start, end time.Time) []barv1.Bar {
	seed := symbolSeed(symbol)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	price := 50 + float64(seed%450)
	skipWeekends := iv.Rank <= interval.Interval1d.Rank

	ts := iv.CalculateBucketTime(start)
	if ts.Before(start) {
		ts = iv.NextBucket(ts)
	}

	var bars []barv1.Bar
	for ; !ts.After(end); ts = iv.NextBucket(ts) {
		if skipWeekends && util.IsWeekend(ts) {
			continue
		}

		open := price * (1 + uniform(rng, -maxOpenDrift, maxOpenDrift))
		closePrice := open * (1 + uniform(rng, -maxCloseDrift, maxCloseDrift))
		high := math.Max(open, closePrice) * (1 + uniform(rng, 0, maxWickSpread))
		low := math.Min(open, closePrice) * (1 - uniform(rng, 0, maxWickSpread))
		volume := int64(baseVolume * uniform(rng, minVolumeScale, maxVolumeScale))

		bars = append(bars, barv1.Bar{
			Timestamp: ts,
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(closePrice),
			Volume:    volume,
		})
		price = closePrice
	}
	return bars
}

func symbolSeed(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
