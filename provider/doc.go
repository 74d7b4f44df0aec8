// Package provider is a small generic framework for swappable backends such
// as the transcription and diarization sidecars.
//
// A Registry holds named factories, a Manager turns configured factories
// into live instances and picks one through a Selector:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("whisper", whisper.Factory)
//	mgr := provider.NewManager(reg, provider.FirstAvailable[transcription.Provider]{})
//	_ = mgr.Initialize("whisper", settings)
//	p, _ := mgr.Get(ctx)
//
// Single calls are modeled as RequestResponse[I, O] and decorated with
// Middleware:
//
//	call := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out](),
//	    provider.WithResilience[In, Out](policy),
//	)(provider.Func("yt-dlp", fn))
package provider
