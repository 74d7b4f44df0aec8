package resilience

import (
	"context"
	"fmt"
	"time"
)

// Policy is the configuration form of a retry plus circuit breaker setup.
type Policy struct {
	MaxAttempts     int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff  time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff      time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	BreakerFailures int           `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" mapstructure:"breaker_timeout"`
}

// ApplyDefaults fills zero fields.
func (p *Policy) ApplyDefaults() {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.BreakerFailures <= 0 {
		p.BreakerFailures = 5
	}
	if p.BreakerTimeout <= 0 {
		p.BreakerTimeout = 30 * time.Second
	}
}

// Validate validates the policy.
func (p *Policy) Validate() error {
	if p.MaxAttempts > 20 {
		return fmt.Errorf("max_attempts must be at most 20 (got: %d)", p.MaxAttempts)
	}
	if p.MaxBackoff > 0 && p.InitialBackoff > p.MaxBackoff {
		return fmt.Errorf("initial_backoff %s exceeds max_backoff %s", p.InitialBackoff, p.MaxBackoff)
	}
	return nil
}

// Retry returns the retry configuration for this policy.
func (p Policy) Retry() RetryConfig {
	cfg := DefaultRetryConfig()
	if p.MaxAttempts > 0 {
		cfg.MaxAttempts = p.MaxAttempts
	}
	if p.InitialBackoff > 0 {
		cfg.InitialBackoff = p.InitialBackoff
	}
	if p.MaxBackoff > 0 {
		cfg.MaxBackoff = p.MaxBackoff
	}
	return cfg
}

// Breaker creates a circuit breaker named after the guarded dependency.
func (p Policy) Breaker(name string) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Name:        name,
		MaxFailures: p.BreakerFailures,
		Timeout:     p.BreakerTimeout,
	})
}

// Guard runs fn with retries, each attempt passing through breaker. A nil
// breaker disables circuit breaking. An open circuit is not retried.
func Guard(ctx context.Context, retry RetryConfig, breaker *CircuitBreaker, fn func() error) error {
	_, err := GuardValue(ctx, retry, breaker, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// GuardValue is Guard for functions that return a value.
func GuardValue[T any](ctx context.Context, retry RetryConfig, breaker *CircuitBreaker, fn func() (T, error)) (T, error) {
	if breaker == nil {
		return Retry(ctx, retry, fn)
	}
	return Retry(ctx, retry, func() (T, error) {
		var out T
		err := breaker.Execute(func() error {
			var callErr error
			out, callErr = fn()
			return callErr
		})
		return out, err
	})
}
