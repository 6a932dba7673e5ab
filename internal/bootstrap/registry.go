package bootstrap

import (
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
)

// Registry holds the process-wide named instances.
type Registry struct {
	Breakers *circuitbreaker.Registry
}

// registerRegistry registers the registry.
func (b *Bootstrap) registerRegistry() {
	b.Registry.Breakers = circuitbreaker.NewRegistry(b.Logger)
}
