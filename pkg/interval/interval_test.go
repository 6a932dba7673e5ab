package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInterval(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "canonical minute", input: "1m", expected: "1m"},
		{name: "canonical month", input: "1M", expected: "1M"},
		{name: "alias 1min", input: "1min", expected: "1m"},
		{name: "alias 60min", input: "60min", expected: "1h"},
		{name: "alias daily", input: "daily", expected: "1d"},
		{name: "alias 1wk", input: "1wk", expected: "1w"},
		{name: "alias 1mo", input: "1mo", expected: "1M"},
		{name: "unknown", input: "2d", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GetInterval(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				assert.False(t, IsValidInterval(tc.input))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Name)
		})
	}
}

func TestInterval_IsCoarserThan(t *testing.T) {
	for idx := 1; idx < len(AllIntervals); idx++ {
		assert.True(t, AllIntervals[idx].IsCoarserThan(AllIntervals[idx-1]))
		assert.False(t, AllIntervals[idx-1].IsCoarserThan(AllIntervals[idx]))
		assert.False(t, AllIntervals[idx].IsCoarserThan(AllIntervals[idx]))
	}
}

func TestInterval_CalculateBucketTime(t *testing.T) {
	// Wednesday
	ts := time.Date(2024, 1, 17, 13, 47, 31, 0, time.UTC)

	testCases := []struct {
		interval Interval
		expected time.Time
	}{
		{Interval1m, time.Date(2024, 1, 17, 13, 47, 0, 0, time.UTC)},
		{Interval5m, time.Date(2024, 1, 17, 13, 45, 0, 0, time.UTC)},
		{Interval15m, time.Date(2024, 1, 17, 13, 45, 0, 0, time.UTC)},
		{Interval30m, time.Date(2024, 1, 17, 13, 30, 0, 0, time.UTC)},
		{Interval1h, time.Date(2024, 1, 17, 13, 0, 0, 0, time.UTC)},
		{Interval4h, time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)},
		{Interval1d, time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)},
		{Interval1w, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Interval1M, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.interval.Name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.interval.CalculateBucketTime(ts))
		})
	}
}

func TestInterval_CalculateBucketTime_NonUTCInput(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	// 2024-01-14 22:00 EST is Monday 03:00 UTC.
	ts := time.Date(2024, 1, 14, 22, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Interval1w.CalculateBucketTime(ts))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Interval1d.CalculateBucketTime(ts))
}

func TestInterval_SundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2024, 1, 21, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Interval1w.CalculateBucketTime(sunday))
}

func TestInterval_NextBucketAndCount(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Interval1M.NextBucket(jan))

	start, end := Interval5m.GetBucketRange(time.Date(2024, 1, 1, 9, 32, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 35, 0, 0, time.UTC), end)

	assert.Equal(t, 3, Interval1M.CountBuckets(jan, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, Interval1d.CountBuckets(jan, jan))
	assert.True(t, Interval1h.IsInBucket(jan.Add(5*time.Minute), jan.Add(59*time.Minute)))
}

func TestInterval_DefaultLookback(t *testing.T) {
	day := 24 * time.Hour
	assert.Equal(t, 5*day, Interval1m.DefaultLookback())
	assert.Equal(t, 60*day, Interval4h.DefaultLookback())
	assert.Equal(t, 365*day, Interval1d.DefaultLookback())
	assert.True(t, Interval1d.IsIntraday() == false)
	assert.True(t, Interval4h.IsIntraday())
}
