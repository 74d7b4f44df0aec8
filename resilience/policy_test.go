package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyDefaults(t *testing.T) {
	var p Policy
	p.ApplyDefaults()
	if p.MaxAttempts != 3 || p.BreakerFailures != 5 || p.BreakerTimeout != 30*time.Second {
		t.Errorf("unexpected defaults %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	bad := Policy{MaxAttempts: 3, InitialBackoff: time.Minute, MaxBackoff: time.Second}
	if err := bad.Validate(); err == nil {
		t.Error("expected error when initial backoff exceeds max")
	}
}

func TestPolicyRetryOverrides(t *testing.T) {
	cfg := Policy{MaxAttempts: 7, InitialBackoff: time.Second}.Retry()
	if cfg.MaxAttempts != 7 || cfg.InitialBackoff != time.Second {
		t.Errorf("unexpected retry config %+v", cfg)
	}
	if cfg.RetryIf == nil {
		t.Error("RetryIf should default")
	}
}

func TestGuardStopsAtOpenCircuit(t *testing.T) {
	p := Policy{MaxAttempts: 5, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BreakerFailures: 2, BreakerTimeout: time.Hour}
	breaker := p.Breaker("whisper")

	calls := 0
	err := Guard(context.Background(), p.Retry(), breaker, func() error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected open circuit, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls before the circuit opened, got %d", calls)
	}
}

func TestGuardValueWithoutBreaker(t *testing.T) {
	calls := 0
	got, err := GuardValue(context.Background(), RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond}, nil, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("flaky")
		}
		return "done", nil
	})
	if err != nil || got != "done" {
		t.Errorf("got %q, %v", got, err)
	}
}
