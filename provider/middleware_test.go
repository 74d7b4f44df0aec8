package provider

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/resilience"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware[string, string] {
		return func(inner RequestResponse[string, string]) RequestResponse[string, string] {
			return Func(inner.Name(), func(ctx context.Context, in string) (string, error) {
				order = append(order, name)
				return inner.Execute(ctx, in)
			})
		}
	}
	base := Func("echo", func(_ context.Context, in string) (string, error) { return in, nil })

	out, err := Chain(tag("a"), tag("b"), tag("c"))(base).Execute(context.Background(), "x")
	if err != nil || out != "x" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("order = %v, want a,b,c", order)
	}
}

func TestFunc(t *testing.T) {
	p := Func("double", func(_ context.Context, n int) (int, error) { return n * 2, nil })
	if p.Name() != "double" || !p.IsAvailable(context.Background()) {
		t.Errorf("unexpected provider metadata")
	}
	if got, _ := p.Execute(context.Background(), 21); got != 42 {
		t.Errorf("Execute = %d, want 42", got)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	failing := Func("yt-dlp", func(context.Context, string) (string, error) {
		return "", errors.New("exit status 1")
	})
	p := WithLogging[string, string](log)(failing)
	if p.Name() != "yt-dlp" {
		t.Errorf("name not forwarded: %q", p.Name())
	}
	if _, err := p.Execute(context.Background(), "url"); err == nil {
		t.Fatal("expected error to pass through")
	}
	out := buf.String()
	if !strings.Contains(out, "provider call failed") || !strings.Contains(out, "exit status 1") {
		t.Errorf("log output missing failure: %s", out)
	}
}

func TestWithTracingPassesThrough(t *testing.T) {
	p := WithTracing[int, int]()(Func("inc", func(_ context.Context, n int) (int, error) { return n + 1, nil }))
	if got, err := p.Execute(context.Background(), 1); err != nil || got != 2 {
		t.Errorf("Execute = %d, %v", got, err)
	}
}

func TestWithResilience(t *testing.T) {
	policy := resilience.Policy{
		MaxAttempts:     3,
		InitialBackoff:  time.Millisecond,
		MaxBackoff:      time.Millisecond,
		BreakerFailures: 10,
		BreakerTimeout:  time.Second,
	}

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		p := WithResilience[string, string](policy)(Func("whisper", func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", apperrors.ConnectionFailed("whisper")
			}
			return "ok", nil
		}))
		out, err := p.Execute(context.Background(), "in")
		if err != nil || out != "ok" {
			t.Fatalf("Execute = %q, %v", out, err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		p := WithResilience[string, string](policy)(Func("whisper", func(context.Context, string) (string, error) {
			calls++
			return "", apperrors.InvalidInput("file", "empty")
		}))
		if _, err := p.Execute(context.Background(), "in"); err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestDecodeSettings(t *testing.T) {
	type settings struct {
		URL      string        `mapstructure:"url"`
		Timeout  time.Duration `mapstructure:"timeout"`
		Speakers int           `mapstructure:"speakers"`
		Models   []string      `mapstructure:"models"`
	}
	var s settings
	err := DecodeSettings(map[string]any{
		"url":      "http://localhost:8387",
		"timeout":  "90s",
		"speakers": "2",
		"models":   "base,small",
	}, &s)
	if err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if s.URL != "http://localhost:8387" || s.Timeout != 90*time.Second || s.Speakers != 2 {
		t.Errorf("decoded %+v", s)
	}
	if len(s.Models) != 2 || s.Models[1] != "small" {
		t.Errorf("models = %v", s.Models)
	}

	if err := DecodeSettings(map[string]any{"speakers": "many"}, &s); err == nil {
		t.Error("expected error for non-numeric speakers")
	}
}
