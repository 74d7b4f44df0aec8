// Package observability wires OpenTelemetry tracing and metrics for the
// transcription pipeline.
//
// Setup installs OTLP/HTTP exporters when telemetry is enabled and leaves the
// global no-op providers in place otherwise, so StartSpan and the pipeline
// instruments are always safe to call:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "podscribe", version)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanStage+"transcribe")
//	defer span.End()
//
// The /health endpoint aggregates component results with ServiceHealth.
package observability
