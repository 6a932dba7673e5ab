package v1

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// BarRepository persists bars keyed by (symbol, timestamp, frequency, source).
type BarRepository interface {
	// InsertBars stores bars, skipping ones already present. It returns the number inserted.
	InsertBars(ctx context.Context, symbol, frequency string, source Source, bars []Bar) (int64, error)
	// QueryBars returns bars in [start, end] ordered by timestamp.
	QueryBars(ctx context.Context, symbol, frequency string, start, end time.Time) ([]Bar, error)
}
