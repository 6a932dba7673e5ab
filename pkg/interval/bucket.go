package interval

import (
	"time"
)

// CalculateBucketTime floors timestamp to the start of its bucket in UTC.
// Intraday intervals align on minute-of-day, 1d on midnight, 1w on Monday
// 00:00 and 1M on the first day of the month.
func (i Interval) CalculateBucketTime(timestamp time.Time) time.Time {
	ts := timestamp.UTC()
	midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)

	switch i.Name {
	case Interval1d.Name:
		return midnight
	case Interval1w.Name:
		days := int(ts.Weekday())
		if days == 0 { // Sunday
			days = 7
		}
		return midnight.AddDate(0, 0, 1-days)
	case Interval1M.Name:
		return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		step := int(i.Duration / time.Minute)
		if step <= 0 {
			return ts.Truncate(i.Duration)
		}
		minuteOfDay := ts.Hour()*60 + ts.Minute()
		return midnight.Add(time.Duration(minuteOfDay-minuteOfDay%step) * time.Minute)
	}
}

// NextBucket returns the start of the bucket following the one bucketStart opens.
func (i Interval) NextBucket(bucketStart time.Time) time.Time {
	switch i.Name {
	case Interval1d.Name:
		return bucketStart.AddDate(0, 0, 1)
	case Interval1w.Name:
		return bucketStart.AddDate(0, 0, 7)
	case Interval1M.Name:
		return bucketStart.AddDate(0, 1, 0)
	default:
		return bucketStart.Add(i.Duration)
	}
}

// GetBucketRange returns the start and end time of the interval bucket
func (i Interval) GetBucketRange(timestamp time.Time) (start, end time.Time) {
	start = i.CalculateBucketTime(timestamp)
	return start, i.NextBucket(start)
}

// IsInBucket checks if a timestamp falls within the same bucket as another timestamp
func (i Interval) IsInBucket(timestamp1, timestamp2 time.Time) bool {
	return i.CalculateBucketTime(timestamp1).Equal(i.CalculateBucketTime(timestamp2))
}

// CountBuckets returns how many buckets of i the half-open range [from, to) touches.
func (i Interval) CountBuckets(from, to time.Time) int {
	if !from.Before(to) {
		return 0
	}
	n := 0
	for b := i.CalculateBucketTime(from); b.Before(to); b = i.NextBucket(b) {
		n++
	}
	return n
}
