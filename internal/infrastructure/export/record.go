package export

import (
	"sort"
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
)

// Record is one exported bar. Timestamp is Unix milliseconds UTC.
type Record struct {
	Symbol        string  `json:"symbol" parquet:"symbol,dict"`
	Frequency     string  `json:"frequency" parquet:"frequency,dict"`
	Source        string  `json:"source" parquet:"source,dict"`
	Timestamp     int64   `json:"timestamp" parquet:"timestamp"`
	Open          float64 `json:"open" parquet:"open"`
	High          float64 `json:"high" parquet:"high"`
	Low           float64 `json:"low" parquet:"low"`
	Close         float64 `json:"close" parquet:"close"`
	Volume        int64   `json:"volume" parquet:"volume"`
	OpenInterest  *int64  `json:"openInterest,omitempty" parquet:"open_interest,optional"`
	ContractMonth string  `json:"contractMonth,omitempty" parquet:"contract_month,optional"`
}

// Series is one symbol's bars together with their provenance.
type Series struct {
	Symbol    string
	Frequency string
	Source    barv1.Source
	Bars      []barv1.Bar
}

// ToRecords flattens series into records ordered by symbol then time.
func ToRecords(series ...Series) []Record {
	sorted := append([]Series(nil), series...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	var records []Record
	for _, s := range sorted {
		for _, b := range s.Bars {
			records = append(records, Record{
				Symbol:        s.Symbol,
				Frequency:     s.Frequency,
				Source:        string(s.Source),
				Timestamp:     b.Timestamp.UTC().UnixMilli(),
				Open:          b.Open,
				High:          b.High,
				Low:           b.Low,
				Close:         b.Close,
				Volume:        b.Volume,
				OpenInterest:  b.OpenInterest,
				ContractMonth: b.ContractMonth,
			})
		}
	}
	return records
}

// Time returns the record timestamp as a UTC time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}
