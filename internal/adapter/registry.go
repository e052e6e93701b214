package adapter

import (
	"fmt"
	"sort"
)

// Registry resolves provider names to adapters. It is read-only after construction.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry indexes adapters by their provider name. Later adapters replace earlier ones with the same name.
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.ProviderName()] = a
	}
	return &Registry{adapters: m}
}

// DefaultRegistry holds every provider adapter built into the importer.
func DefaultRegistry() *Registry {
	return NewRegistry(Offer1Adapter{}, Offer2Adapter{})
}

// Resolve returns the adapter registered for name, or an error wrapping ErrUnknownProvider.
func (r *Registry) Resolve(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return a, nil
}

// Names lists registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
