package v1

import (
	"context"
	"time"
)

//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock

// Request is what the upstream provider receives for one symbol.
// Either StartDate or DaysBack is set.
type Request struct {
	Symbol               string
	Interval             string
	StartDate            *time.Time
	DaysBack             int
	EndDate              *time.Time
	IncludeExtendedHours bool
}

// Row is one upstream observation. Nil fields could not be parsed.
type Row struct {
	Timestamp time.Time
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *int64
}

// Provider is the upstream source of historical bars.
type Provider interface {
	Name() string
	FetchBars(ctx context.Context, req Request) ([]Row, error)
}
