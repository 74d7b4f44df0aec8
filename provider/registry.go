package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps backend names such as "whisper" to their factories.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// RegisterFactory registers a named factory, replacing any earlier one.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Create builds a provider from its settings block. Unknown names list the
// registered ones in the error so a typo in the config is easy to spot.
func (r *Registry[T]) Create(name string, settings map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q not registered (known: %v)", name, r.List())
	}
	return factory(settings)
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
