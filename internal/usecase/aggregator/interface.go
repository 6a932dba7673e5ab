package aggregator

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// ResultCache memoizes encoded aggregation results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
