package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func jsonLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: "json"}, "test", &buf)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json line %q: %v", line, err)
	}
	return m
}

func TestInfoWritesFields(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.Info("aligned", Fields(FieldSegments, 3, FieldSpeakers, 2))

	m := decodeLine(t, buf)
	if m["message"] != "aligned" {
		t.Errorf("message = %v", m["message"])
	}
	if m[FieldSegments] != float64(3) {
		t.Errorf("segments = %v", m[FieldSegments])
	}
	if m["service"] != "test" {
		t.Errorf("service = %v", m["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := jsonLogger(t, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if decodeLine(t, buf)["level"] != "warn" {
		t.Error("expected warn line")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := jsonLogger(t, "loud")
	l.Debug("hidden")
	l.Info("shown")
	if decodeLine(t, buf)["message"] != "shown" {
		t.Error("expected info line only")
	}
}

func TestWithContext(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	ctx := ContextWithRunID(context.Background(), "run-1")
	ctx = ContextWithRequestID(ctx, "req-1")

	l.WithContext(ctx).Info("hello")
	m := decodeLine(t, buf)
	if m[FieldRunID] != "run-1" || m[FieldRequestID] != "req-1" {
		t.Errorf("context ids missing: %v", m)
	}
	if RunIDFromContext(context.Background()) != "" {
		t.Error("empty context should have no run id")
	}
}

func TestWithContextAddsTraceID(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:  trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Info("traced")
	if got := decodeLine(t, buf)[FieldTraceID]; got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v", got)
	}
}

func TestWithComponentAndError(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithComponent("source").WithError(errors.New("boom")).Error("failed")
	m := decodeLine(t, buf)
	if m[FieldComponent] != "source" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m["error"] != "boom" {
		t.Errorf("error = %v", m["error"])
	}
}

func TestConsoleFormatNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "test", &buf)
	l.Warn("careful")
	out := buf.String()
	if !strings.Contains(out, "[WRN]") || !strings.Contains(out, "careful") {
		t.Errorf("unexpected console output %q", out)
	}
}

func TestNop(t *testing.T) {
	Nop().Info("discarded", Fields("k", "v"))
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kvs  []interface{}
		want int
	}{
		{"pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"odd trailing key", []interface{}{"a", 1, "b"}, 1},
		{"non-string key", []interface{}{3, 1, "b", 2}, 1},
		{"empty", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fields(tc.kvs...); len(got) != tc.want {
				t.Errorf("len = %d, want %d", len(got), tc.want)
			}
		})
	}
}

func TestStageFieldsAndMerge(t *testing.T) {
	f := StageFields("convert", 1500*time.Millisecond)
	if f[FieldStage] != "convert" || f[FieldDuration] != int64(1500) {
		t.Errorf("unexpected fields %v", f)
	}
	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("unexpected merge %v", merged)
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	bad := []Config{
		{Level: "loud", Format: "json", Output: "stdout"},
		{Level: "info", Format: "xml", Output: "stdout"},
		{Level: "info", Format: "json", Output: "file"},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}

func TestRegistry(t *testing.T) {
	defer Reset()
	l, buf := jsonLogger(t, "info")
	Register("custom", l)
	Get("custom").Info("via registry")
	if decodeLine(t, buf)["message"] != "via registry" {
		t.Error("registered logger not returned")
	}
	if Get("other") == nil {
		t.Error("unregistered name should fall back to global logger")
	}
}
