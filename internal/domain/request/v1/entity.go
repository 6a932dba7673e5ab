package v1

import (
	"time"
)

// DataRequest is a caller's request for historical bars.
type DataRequest struct {
	Symbols              []string   `json:"symbols"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	Frequency            string     `json:"frequency"`
	IncludeExtendedHours bool       `json:"includeExtendedHours"`
	MaxRecords           *int       `json:"maxRecords,omitempty"`
}

// NormalizedRequest is a validated DataRequest in canonical form.
// Symbols are trimmed, upper-cased and de-duplicated in first-seen order,
// dates are UTC and the frequency is a canonical interval name.
type NormalizedRequest struct {
	Symbols              []string
	StartDate            *time.Time
	EndDate              *time.Time
	Frequency            string
	IncludeExtendedHours bool
	MaxRecords           *int
}

// ToDataRequest converts back to the caller-facing shape.
func (n NormalizedRequest) ToDataRequest() DataRequest {
	symbols := make([]string, len(n.Symbols))
	copy(symbols, n.Symbols)
	return DataRequest{
		Symbols:              symbols,
		StartDate:            n.StartDate,
		EndDate:              n.EndDate,
		Frequency:            n.Frequency,
		IncludeExtendedHours: n.IncludeExtendedHours,
		MaxRecords:           n.MaxRecords,
	}
}

// SavedQuery is a stored request definition with a unique name.
type SavedQuery struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Request    DataRequest `json:"request"`
	IsFavorite bool        `json:"isFavorite"`
	UseCount   int64       `json:"useCount"`
	CreatedAt  time.Time   `json:"createdAt"`
	LastUsedAt *time.Time  `json:"lastUsedAt,omitempty"`
}
