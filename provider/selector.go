package provider

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Selector picks one provider among the initialized ones.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// FirstAvailable picks the first provider, in name order, whose
// IsAvailable check passes. Sidecars that are still loading their model
// are skipped.
type FirstAvailable[T Provider] struct{}

// Select implements Selector.
func (FirstAvailable[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	names := slices.Sorted(maps.Keys(providers))
	for _, name := range names {
		if p := providers[name]; p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	if len(names) == 0 {
		return zero, fmt.Errorf("no provider initialized")
	}
	return zero, fmt.Errorf("none of %v is available", names)
}
