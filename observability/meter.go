package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/podscribe/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, cfg Config, serviceName, version string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, version, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the podscribe meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// PipelineMetrics holds the instruments recorded by a processing run.
type PipelineMetrics struct {
	runs            metric.Int64Counter
	stageDuration   metric.Float64Histogram
	segments        metric.Int64Counter
	unknownSegments metric.Int64Counter
	fallbacks       metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter("podscribe.runs",
		metric.WithDescription("Processing runs by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating podscribe.runs counter: %w", err)
	}
	stageDuration, err := meter.Float64Histogram("podscribe.stage.duration",
		metric.WithDescription("Duration of pipeline stages"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating podscribe.stage.duration histogram: %w", err)
	}
	segments, err := meter.Int64Counter("podscribe.segments",
		metric.WithDescription("Transcript segments produced"))
	if err != nil {
		return nil, fmt.Errorf("creating podscribe.segments counter: %w", err)
	}
	unknown, err := meter.Int64Counter("podscribe.segments.unknown_speaker",
		metric.WithDescription("Segments no diarization turn overlapped"))
	if err != nil {
		return nil, fmt.Errorf("creating podscribe.segments.unknown_speaker counter: %w", err)
	}
	fallbacks, err := meter.Int64Counter("podscribe.diarization.fallbacks",
		metric.WithDescription("Runs that produced an unlabeled transcript because diarization failed"))
	if err != nil {
		return nil, fmt.Errorf("creating podscribe.diarization.fallbacks counter: %w", err)
	}
	return &PipelineMetrics{
		runs:            runs,
		stageDuration:   stageDuration,
		segments:        segments,
		unknownSegments: unknown,
		fallbacks:       fallbacks,
	}, nil
}

// RecordRun counts a finished run. status is "ok", "degraded" or "failed".
func (m *PipelineMetrics) RecordRun(ctx context.Context, platform, status string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("platform", platform),
		attribute.String("status", status),
	))
}

// RecordStage records how long a stage took.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordAlignment counts aligned segments and those left without a speaker.
func (m *PipelineMetrics) RecordAlignment(ctx context.Context, total, unknown int) {
	if m == nil {
		return
	}
	m.segments.Add(ctx, int64(total))
	m.unknownSegments.Add(ctx, int64(unknown))
}

// RecordFallback counts a run that skipped speaker labels.
func (m *PipelineMetrics) RecordFallback(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
