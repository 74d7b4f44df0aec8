package provider

import "context"

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from its settings block, as found
// under the provider name in the configuration file.
type Factory[T Provider] func(settings map[string]any) (T, error)
