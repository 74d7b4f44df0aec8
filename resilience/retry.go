package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
)

// RetryConfig shapes the exponential backoff between attempts.
type RetryConfig struct {
	// MaxAttempts counts the first call too.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64
	// RetryIf decides whether an error is worth another attempt.
	RetryIf func(error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryConfig is tuned for sidecar and download calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2,
		Jitter:         0.1,
		RetryIf:        DefaultRetryIf,
	}
}

// DefaultRetryIf gives up on a finished context and an open circuit, follows
// the Retryable flag of AppErrors and retries anything else.
func DefaultRetryIf(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrCircuitOpen):
		return false
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

func (c RetryConfig) normalized() RetryConfig {
	c.MaxAttempts = max(c.MaxAttempts, 1)
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2
	}
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
	return c
}

// Retry calls fn until it succeeds, fails with an error RetryIf rejects, or
// runs out of attempts. The last error is returned.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg = cfg.normalized()
	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if attempt >= cfg.MaxAttempts || !cfg.RetryIf(err) {
			return zero, err
		}

		delay := calculateBackoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// RetryFunc is Retry for functions without a result.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// calculateBackoff is InitialBackoff * BackoffFactor^(attempt-1), jittered
// and capped at MaxBackoff.
func calculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if cfg.Jitter > 0 {
		d += d * cfg.Jitter * (2*rand.Float64() - 1)
	}
	d = min(d, float64(cfg.MaxBackoff))
	if d < 0 {
		return cfg.InitialBackoff
	}
	return time.Duration(d)
}
