package transcription

import "github.com/kbukum/podscribe/provider"

// NewRegistry creates an empty registry of transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewManager creates a manager over reg. Without a default it hands out the
// first available backend in name order.
func NewManager(reg *provider.Registry[Provider]) *provider.Manager[Provider] {
	return provider.NewManager(reg, provider.FirstAvailable[Provider]{})
}
