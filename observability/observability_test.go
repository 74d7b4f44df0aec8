package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/podscribe/errors"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	bad := Config{SampleRate: 2}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
	bad = Config{Enabled: true, SampleRate: 1}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for enabled without endpoint")
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, "podscribe", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown failed: %v", err)
	}
}

func TestStartSpanAndAttributes(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanStage+"align")
	SetSpanAttribute(ctx, AttrSegments, 12)
	SetSpanAttribute(ctx, AttrDiarized, true)
	SetSpanAttribute(ctx, AttrPlatform, "apple")
	SetSpanAttribute(ctx, "ignored", struct{}{})
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "podscribe.stage.align" {
		t.Errorf("name = %q", spans[0].Name())
	}
	if got := len(spans[0].Attributes()); got != 3 {
		t.Errorf("expected 3 attributes, got %d", got)
	}
}

func TestSetSpanErrorRecordsCode(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanRun)
	SetSpanError(ctx, apperrors.MalformedInput("turn", 2, 5, 4, "end is before start"))
	span.End()

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v", s.Status())
	}
	found := false
	for _, kv := range s.Attributes() {
		if string(kv.Key) == AttrErrorCode && kv.Value.AsString() == "MALFORMED_INPUT" {
			found = true
		}
	}
	if !found {
		t.Errorf("error.code attribute missing: %v", s.Attributes())
	}
	if len(s.Events()) == 0 {
		t.Error("expected an exception event")
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, AttrStage, "convert")
	SetSpanError(ctx, errors.New("no span"))
}

func TestPipelineMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewPipelineMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordRun(ctx, "apple", "ok")
	m.RecordStage(ctx, "transcribe", 2*time.Second, nil)
	m.RecordAlignment(ctx, 10, 3)
	m.RecordFallback(ctx, "provider_error")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if data, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	want := map[string]int64{
		"podscribe.runs":                    1,
		"podscribe.segments":                10,
		"podscribe.segments.unknown_speaker": 3,
		"podscribe.diarization.fallbacks":   1,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
}

func TestPipelineMetricsNilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()
	m.RecordRun(ctx, "x", "ok")
	m.RecordStage(ctx, "x", time.Second, nil)
	m.RecordAlignment(ctx, 1, 1)
	m.RecordFallback(ctx, "x")

	if _, err := NewPipelineMetrics(noop.NewMeterProvider().Meter("noop")); err != nil {
		t.Errorf("noop meter should work: %v", err)
	}
}

func TestServiceHealth(t *testing.T) {
	tests := []struct {
		name       string
		components []Health
		required   []bool
		want       HealthStatus
	}{
		{"all up", []Health{{Name: "whisper", Status: HealthStatusUp}}, []bool{true}, HealthStatusUp},
		{"optional down degrades", []Health{{Name: "pyannote", Status: HealthStatusDown}}, []bool{false}, HealthStatusDegraded},
		{"required down", []Health{{Name: "whisper", Status: HealthStatusDown}}, []bool{true}, HealthStatusDown},
		{
			"degraded does not override down",
			[]Health{{Name: "whisper", Status: HealthStatusDown}, {Name: "pyannote", Status: HealthStatusDegraded}},
			[]bool{true, false},
			HealthStatusDown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sh := NewServiceHealth("podscribe", "test")
			for i, c := range tc.components {
				sh.AddComponent(c, tc.required[i])
			}
			if sh.Status != tc.want {
				t.Errorf("status = %s, want %s", sh.Status, tc.want)
			}
		})
	}
}
