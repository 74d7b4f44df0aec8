package transcription

import (
	"context"

	"github.com/kbukum/podscribe/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider

	// Transcribe sends audio for transcription and returns the result.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// AsCall exposes p as a RequestResponse so it can be decorated with
// provider middleware.
func AsCall(p Provider) provider.RequestResponse[Request, *Response] {
	return call{p}
}

type call struct{ Provider }

func (c call) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Transcribe(ctx, req)
}
