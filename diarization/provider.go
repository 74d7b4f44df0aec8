package diarization

import (
	"context"

	"github.com/kbukum/podscribe/provider"
)

// Provider is the interface that diarization backends must implement.
type Provider interface {
	provider.Provider

	// Diarize sends audio for speaker diarization and returns the turns.
	Diarize(ctx context.Context, req Request) (*Response, error)
}

// AsCall exposes p as a RequestResponse so it can be decorated with
// provider middleware.
func AsCall(p Provider) provider.RequestResponse[Request, *Response] {
	return call{p}
}

type call struct{ Provider }

func (c call) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Diarize(ctx, req)
}

// NewRegistry creates a new provider registry for diarization providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewManager creates a manager over reg that picks the first available
// provider in name order.
func NewManager(reg *provider.Registry[Provider]) *provider.Manager[Provider] {
	return provider.NewManager(reg, provider.FirstAvailable[Provider]{})
}
