package cache

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

type entry struct {
	payload     []byte
	size        int64
	createdAt   time.Time
	expiresAt   time.Time
	accessCount int64
	accessTimes []time.Time
}

// EntryInfo describes one cached entry for diagnostics.
type EntryInfo struct {
	Key         string
	SizeBytes   int64
	CreatedAt   time.Time
	ExpiresAt   time.Time
	AccessCount int64
	AccessTimes []time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries      int     `json:"entries"`
	SizeBytes    int64   `json:"sizeBytes"`
	MaxSizeBytes int64   `json:"maxSizeBytes"`
	Hits         int64   `json:"hits"`
	MirrorHits   int64   `json:"mirrorHits"`
	Misses       int64   `json:"misses"`
	Sets         int64   `json:"sets"`
	Evictions    int64   `json:"evictions"`
	Expirations  int64   `json:"expirations"`
	Rejections   int64   `json:"rejections"`
	HitRate      float64 `json:"hitRate"`
}

// Cache is a size-bounded TTL cache. When a Set would exceed the byte
// budget, entries with the lowest accessCount - ageHours score go first.
type Cache struct {
	config Config
	mirror Mirror
	logger logger.Interface
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	size    int64
	stats   Stats

	startOnce sync.Once
	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// Option configures a Cache.
type Option func(*Cache)

// WithMirror adds a shared second tier. Mirror failures are logged only.
func WithMirror(mirror Mirror) Option {
	return func(c *Cache) {
		c.mirror = mirror
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(config Config, logger logger.Interface, opts ...Option) *Cache {
	c := &Cache{
		config:  config.withDefaults(),
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload stored under key. Expired entries are removed and
// reported as missing.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	now := c.now()
	e, ok := c.entries[key]
	if ok && !now.Before(e.expiresAt) {
		c.remove(key)
		c.stats.Expirations++
		ok = false
	}
	if ok {
		e.accessCount++
		e.accessTimes = c.recordAccess(e.accessTimes, now)
		c.stats.Hits++
		payload := e.payload
		c.mu.Unlock()
		return payload, true
	}
	c.mu.Unlock()

	if payload, found := c.getMirror(ctx, key); found {
		return payload, true
	}

	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	return nil, false
}

func (c *Cache) getMirror(ctx context.Context, key string) ([]byte, bool) {
	if c.mirror == nil {
		return nil, false
	}

	payload, ttl, found, err := c.mirror.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "Cache mirror read failed",
			logger.NewField("key", key),
			logger.NewField("error", err.Error()),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}

	if ttl <= 0 {
		ttl = c.config.TTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Hits++
	c.stats.MirrorHits++
	if err := c.store(key, payload, ttl); err != nil {
		c.logger.WarnContext(ctx, "Mirrored entry not kept locally", logger.NewField("key", key))
	}
	return payload, true
}

// Set stores value under key for ttl, or the configured TTL when ttl <= 0.
// A payload larger than the whole cache is rejected with CacheCapacityError
// and any previous value under key is dropped.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.config.TTL
	}

	c.mu.Lock()
	err := c.store(key, value, ttl)
	if err != nil {
		c.stats.Rejections++
	} else {
		c.stats.Sets++
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "Payload too large to cache",
			logger.NewField("key", key),
			logger.NewField("size_bytes", len(value)),
			logger.NewField("max_size_bytes", c.config.MaxSizeBytes),
		)
		return err
	}

	if c.mirror != nil {
		if err := c.mirror.Set(ctx, key, value, ttl); err != nil {
			c.logger.WarnContext(ctx, "Cache mirror write failed",
				logger.NewField("key", key),
				logger.NewField("error", err.Error()),
			)
		}
	}
	return nil
}

// store inserts under c.mu, evicting as needed.
func (c *Cache) store(key string, value []byte, ttl time.Duration) error {
	size := int64(len(value))
	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	if size > c.config.MaxSizeBytes {
		return errors.NewErrorDetailsf(errors.CacheCapacityError, "key",
			"payload of %d bytes exceeds cache capacity of %d bytes", size, c.config.MaxSizeBytes)
	}

	if c.size+size > c.config.MaxSizeBytes {
		c.evict(c.size + size - c.config.MaxSizeBytes)
	}

	now := c.now()
	c.entries[key] = &entry{
		payload:   value,
		size:      size,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	c.size += size
	return nil
}

// evict frees at least need bytes, lowest score first. Ties go to the older entry.
func (c *Cache) evict(need int64) {
	type candidate struct {
		key       string
		score     float64
		createdAt time.Time
	}

	now := c.now()
	candidates := make([]candidate, 0, len(c.entries))
	for key, e := range c.entries {
		ageHours := now.Sub(e.createdAt).Hours()
		candidates = append(candidates, candidate{
			key:       key,
			score:     float64(e.accessCount) - ageHours,
			createdAt: e.createdAt,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		if !candidates[i].createdAt.Equal(candidates[j].createdAt) {
			return candidates[i].createdAt.Before(candidates[j].createdAt)
		}
		return candidates[i].key < candidates[j].key
	})

	var freed int64
	for _, cand := range candidates {
		if freed >= need {
			break
		}
		freed += c.entries[cand.key].size
		c.remove(cand.key)
		c.stats.Evictions++
		c.logger.Debug("Cache entry evicted",
			logger.NewField("key", cand.key),
			logger.NewField("score", cand.score),
		)
	}
}

func (c *Cache) remove(key string) {
	if e, ok := c.entries[key]; ok {
		c.size -= e.size
		delete(c.entries, key)
	}
}

func (c *Cache) recordAccess(times []time.Time, now time.Time) []time.Time {
	times = append(times, now)
	cutoff := now.Add(-c.config.AccessHistory)
	first := 0
	for first < len(times) && times[first].Before(cutoff) {
		first++
	}
	if over := len(times) - first - c.config.MaxAccessHistory; over > 0 {
		first += over
	}
	if first > 0 {
		times = append(times[:0], times[first:]...)
	}
	return times
}

// Invalidate removes every key matching the regular expression pattern. An
// empty pattern clears the cache. It returns the number of local entries removed.
func (c *Cache) Invalidate(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		return c.InvalidateFunc(ctx, func(string) bool { return true }), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, errors.NewErrorDetailsf(errors.CachePatternError, "pattern", "invalid invalidation pattern %q: %v", pattern, err)
	}
	return c.InvalidateFunc(ctx, re.MatchString), nil
}

// InvalidateFunc removes every key for which match returns true.
func (c *Cache) InvalidateFunc(ctx context.Context, match func(key string) bool) int {
	c.mu.Lock()
	removed := 0
	for key := range c.entries {
		if match(key) {
			c.remove(key)
			removed++
		}
	}
	c.mu.Unlock()

	if c.mirror != nil {
		c.invalidateMirror(ctx, match)
	}

	c.logger.DebugContext(ctx, "Cache invalidated", logger.NewField("removed", removed))
	return removed
}

func (c *Cache) invalidateMirror(ctx context.Context, match func(key string) bool) {
	keys, err := c.mirror.Keys(ctx, "")
	if err != nil {
		c.logger.WarnContext(ctx, "Cache mirror scan failed", logger.NewField("error", err.Error()))
		return
	}

	var matched []string
	for _, key := range keys {
		if match(key) {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return
	}
	if err := c.mirror.Delete(ctx, matched...); err != nil {
		c.logger.WarnContext(ctx, "Cache mirror delete failed",
			logger.NewField("keys", len(matched)),
			logger.NewField("error", err.Error()),
		)
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	s.SizeBytes = c.size
	s.MaxSizeBytes = c.config.MaxSizeBytes
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Inspect returns diagnostics for key without counting an access.
func (c *Cache) Inspect(key string) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return EntryInfo{}, false
	}
	return EntryInfo{
		Key:         key,
		SizeBytes:   e.size,
		CreatedAt:   e.createdAt,
		ExpiresAt:   e.expiresAt,
		AccessCount: e.accessCount,
		AccessTimes: append([]time.Time(nil), e.accessTimes...),
	}, true
}

// Keys returns the keys currently held, sorted.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Sweep removes every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			c.remove(key)
			removed++
		}
	}
	c.stats.Expirations += int64(removed)
	return removed
}

// Start sweeps expired entries every SweepInterval until ctx is done or
// Close is called.
func (c *Cache) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go func() {
			defer close(c.done)
			ticker := time.NewTicker(c.config.SweepInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-c.stop:
					return
				case <-ticker.C:
					if removed := c.Sweep(); removed > 0 {
						c.logger.Debug("Expired cache entries swept", logger.NewField("removed", removed))
					}
				}
			}
		}()
	})
}

// Close stops the background sweep and waits for it to exit.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
	})

	started := true
	c.startOnce.Do(func() {
		started = false
		close(c.done)
	})
	if started {
		<-c.done
	}
}
