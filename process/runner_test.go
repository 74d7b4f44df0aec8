package process_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/process"
	"github.com/kbukum/podscribe/resilience"
)

func quickPolicy(attempts, breakerFailures int) resilience.Policy {
	return resilience.Policy{
		MaxAttempts:     attempts,
		InitialBackoff:  time.Millisecond,
		MaxBackoff:      time.Millisecond,
		BreakerFailures: breakerFailures,
		BreakerTimeout:  time.Minute,
	}
}

func TestRunnerRun(t *testing.T) {
	r := process.NewRunner("echo", quickPolicy(1, 5))
	if r.Name() != "echo" || !r.IsAvailable(context.Background()) {
		t.Fatalf("unexpected runner metadata")
	}
	res, err := r.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "hello" {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestRunnerRetriesUntilSuccess(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "attempted")
	script := "if [ -f " + marker + " ]; then echo ok; else touch " + marker + "; exit 3; fi"

	r := process.NewRunner("sh", quickPolicy(2, 5))
	res, err := r.Run(context.Background(), "-c", script)
	if err != nil {
		t.Fatalf("expected second attempt to succeed: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "ok" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("first attempt did not run: %v", err)
	}
}

func TestRunnerBreakerTrips(t *testing.T) {
	r := process.NewRunner("false", quickPolicy(1, 2))
	for i := 0; i < 2; i++ {
		if _, err := r.Run(context.Background()); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := r.Run(context.Background())
	if !apperrors.IsCode(err, apperrors.ErrCodeServiceUnavailable) {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen in chain, got %v", err)
	}
}

func TestRunnerDoesNotRetryMissingBinary(t *testing.T) {
	r := process.NewRunner("podscribe-no-such-tool", quickPolicy(3, 10))
	if r.IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
	start := time.Now()
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > time.Second {
		t.Error("missing binary should fail fast")
	}
}
