package circuitbreaker

import (
	"sort"
	"sync"

	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

// Registry holds the named breakers of a process. It is built once at startup
// and handed to every consumer.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
	logger   logger.Interface
	opts     []Option
}

// NewRegistry creates an empty registry. opts are applied to every breaker it creates.
func NewRegistry(log logger.Interface, opts ...Option) *Registry {
	return &Registry{
		breakers: make(map[string]*Breaker),
		logger:   log,
		opts:     opts,
	}
}

// GetOrCreate returns the breaker registered under name, creating it with cfg
// on first use. cfg is ignored when the breaker already exists.
func (r *Registry) GetOrCreate(name string, cfg Config) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		return b
	}
	b = New(name, cfg, r.logger, r.opts...)
	r.breakers[name] = b
	return b
}

// Get returns the breaker registered under name.
func (r *Registry) Get(name string) (*Breaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.breakers[name]
	return b, ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the metrics of every registered breaker.
func (r *Registry) Snapshot() map[string]Metrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Metrics, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.Metrics()
	}
	return out
}

// ResetAll clears the metrics of every registered breaker.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.breakers {
		b.ResetMetrics()
	}
}
