package interval

import (
	"fmt"
	"time"
)

// Interval represents a bar frequency. Rank gives the position in the total
// ordering used to decide whether one frequency is coarser than another.
type Interval struct {
	Name     string
	Duration time.Duration
	Format   string
	Rank     int
}

// Supported intervals, finest first.
var (
	Interval1m  = Interval{Name: "1m", Duration: time.Minute, Format: "2006-01-02 15:04:00", Rank: 0}
	Interval5m  = Interval{Name: "5m", Duration: 5 * time.Minute, Format: "2006-01-02 15:04:00", Rank: 1}
	Interval15m = Interval{Name: "15m", Duration: 15 * time.Minute, Format: "2006-01-02 15:04:00", Rank: 2}
	Interval30m = Interval{Name: "30m", Duration: 30 * time.Minute, Format: "2006-01-02 15:04:00", Rank: 3}
	Interval1h  = Interval{Name: "1h", Duration: time.Hour, Format: "2006-01-02 15:00:00", Rank: 4}
	Interval4h  = Interval{Name: "4h", Duration: 4 * time.Hour, Format: "2006-01-02 15:00:00", Rank: 5}
	Interval1d  = Interval{Name: "1d", Duration: 24 * time.Hour, Format: "2006-01-02", Rank: 6}
	Interval1w  = Interval{Name: "1w", Duration: 7 * 24 * time.Hour, Format: "2006-01-02", Rank: 7}
	// Interval1M is the calendar month. Duration is nominal and only used for
	// gap tolerance; bucketing follows the calendar.
	Interval1M = Interval{Name: "1M", Duration: 30 * 24 * time.Hour, Format: "2006-01", Rank: 8}
)

// AllIntervals lists every supported interval in hierarchy order.
var AllIntervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval4h, Interval1d, Interval1w, Interval1M,
}

var intervalRegistry = make(map[string]Interval)

// aliases accepted from callers. Names are case-sensitive because "1m" and
// "1M" are different frequencies.
var aliases = map[string]string{
	"1min":    "1m",
	"5min":    "5m",
	"15min":   "15m",
	"30min":   "30m",
	"60min":   "1h",
	"60m":     "1h",
	"1hour":   "1h",
	"4hour":   "4h",
	"240min":  "4h",
	"daily":   "1d",
	"1day":    "1d",
	"weekly":  "1w",
	"1wk":     "1w",
	"monthly": "1M",
	"1mo":     "1M",
	"1mon":    "1M",
}

func init() {
	for _, interval := range AllIntervals {
		intervalRegistry[interval.Name] = interval
	}
}

// Normalize returns the canonical name for name or one of its aliases.
func Normalize(name string) (string, bool) {
	if _, ok := intervalRegistry[name]; ok {
		return name, true
	}
	canonical, ok := aliases[name]
	return canonical, ok
}

// GetInterval returns an interval by canonical name or alias.
func GetInterval(name string) (Interval, error) {
	canonical, ok := Normalize(name)
	if !ok {
		return Interval{}, fmt.Errorf("unsupported interval: %s", name)
	}
	return intervalRegistry[canonical], nil
}

// IsValidInterval checks if interval name is supported
func IsValidInterval(name string) bool {
	_, ok := Normalize(name)
	return ok
}

// GetAllIntervalNames returns all supported interval names
func GetAllIntervalNames() []string {
	names := make([]string, 0, len(AllIntervals))
	for _, interval := range AllIntervals {
		names = append(names, interval.Name)
	}
	return names
}

// IsCoarserThan reports whether i sits strictly above other in the hierarchy.
func (i Interval) IsCoarserThan(other Interval) bool {
	return i.Rank > other.Rank
}

// IsIntraday reports whether the interval is shorter than a day.
func (i Interval) IsIntraday() bool {
	return i.Rank < Interval1d.Rank
}

// DefaultLookback is how far back a request without a start date reaches.
func (i Interval) DefaultLookback() time.Duration {
	day := 24 * time.Hour
	switch {
	case i.Rank <= Interval30m.Rank:
		return 5 * day
	case i.Rank <= Interval4h.Rank:
		return 60 * day
	case i.Name == Interval1d.Name:
		return 365 * day
	case i.Name == Interval1w.Name:
		return 5 * 365 * day
	default:
		return 10 * 365 * day
	}
}

// String implements fmt.Stringer.
func (i Interval) String() string {
	return i.Name
}
