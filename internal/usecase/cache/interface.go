package cache

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Mirror is a shared second tier behind the in-process cache.
type Mirror interface {
	// Get returns the value and its remaining lifetime; ttl is zero when unknown.
	Get(ctx context.Context, key string) (value []byte, ttl time.Duration, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
