package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/podscribe/logger"
)

// Factory creates a Storage backend from the shared config.
type Factory func(ctx context.Context, cfg Config) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a backend factory under name. Backend packages
// call it from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Registered lists the registered backend names.
func Registered() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the backend named by cfg.Provider. The backend package must
// have been imported so its factory is registered.
func New(ctx context.Context, cfg Config) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	logger.Get("storage").Info("initializing storage", logger.Fields("provider", cfg.Provider))
	return f(ctx, cfg)
}
