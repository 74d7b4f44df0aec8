package provider

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/podscribe/logger"
)

// Manager owns the live providers built from configuration. Get returns the
// pinned default when there is one and otherwise asks the selector.
type Manager[T Provider] struct {
	mu          sync.RWMutex
	registry    *Registry[T]
	selector    Selector[T]
	providers   map[string]T
	defaultName string
	log         *logger.Logger
}

// NewManager creates a Manager over registry.
func NewManager[T Provider](registry *Registry[T], selector Selector[T]) *Manager[T] {
	return &Manager[T]{
		registry:  registry,
		selector:  selector,
		providers: make(map[string]T),
		log:       logger.Get("provider"),
	}
}

// Initialize builds the named provider from its settings block and keeps it.
func (m *Manager[T]) Initialize(name string, settings map[string]any) error {
	instance, err := m.registry.Create(name, settings)
	if err != nil {
		return fmt.Errorf("initialize provider %q: %w", name, err)
	}
	m.Add(instance)
	m.log.Info("provider initialized", logger.Fields(logger.FieldProvider, name))
	return nil
}

// Add keeps an already built provider under its own name.
func (m *Manager[T]) Add(p T) {
	m.mu.Lock()
	m.providers[p.Name()] = p
	m.mu.Unlock()
}

// Get returns the default provider, or the selector's pick when no default
// is pinned.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.RLock()
	name := m.defaultName
	snapshot := maps.Clone(m.providers)
	m.mu.RUnlock()

	if name == "" {
		return m.selector.Select(ctx, snapshot)
	}
	if p, ok := snapshot[name]; ok {
		return p, nil
	}
	var zero T
	return zero, fmt.Errorf("default provider %q not found", name)
}

// GetByName returns the named provider.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q not found", name)
	}
	return p, nil
}

// SetDefault pins Get to an initialized provider.
func (m *Manager[T]) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %q not initialized", name)
	}
	m.defaultName = name
	return nil
}

// Available returns the names of all initialized providers, sorted.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.providers))
}
