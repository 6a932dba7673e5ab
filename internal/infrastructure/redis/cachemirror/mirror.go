package cachemirror

import (
	"context"
	"strings"
	"time"

	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/redis"
)

// globEscaper escapes the characters SCAN MATCH treats as patterns.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Mirror stores cache entries in Redis under a fixed key prefix so several
// processes can share one warm tier.
type Mirror struct {
	client redis.Client
	prefix string
	logger logger.Interface
}

// NewMirror creates a Redis-backed mirror.
func NewMirror(client redis.Client, prefix string, log logger.Interface) *Mirror {
	return &Mirror{
		client: client,
		prefix: prefix,
		logger: log,
	}
}

// Get returns the value and its remaining lifetime. ttl is zero when Redis
// reports no expiry.
func (m *Mirror) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	value, found, err := m.client.Get(ctx, m.prefix+key)
	if err != nil || !found {
		return nil, 0, false, err
	}

	ttl, err := m.client.TTL(ctx, m.prefix+key)
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to read mirror TTL", logger.NewField("key", key))
		return value, 0, true, nil
	}
	if ttl < 0 {
		ttl = 0
	}
	return value, ttl, true, nil
}

// Set writes value with the given lifetime.
func (m *Mirror) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.client.Set(ctx, m.prefix+key, value, ttl)
}

// Delete removes keys from the mirror.
func (m *Mirror) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = m.prefix + key
	}
	_, err := m.client.Del(ctx, prefixed...)
	return err
}

// Keys lists mirrored keys starting with prefix, without the mirror prefix.
func (m *Mirror) Keys(ctx context.Context, prefix string) ([]string, error) {
	raw, err := m.client.Scan(ctx, globEscaper.Replace(m.prefix+prefix)+"*")
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for _, key := range raw {
		keys = append(keys, strings.TrimPrefix(key, m.prefix))
	}
	return keys, nil
}
