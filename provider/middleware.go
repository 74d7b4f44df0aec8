package provider

import (
	"context"
	"time"

	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/resilience"
)

// Middleware transforms a RequestResponse provider by wrapping it.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares. The first one is outermost:
// Chain(a, b, c)(p) is a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// wrapped forwards Name and IsAvailable to the inner provider.
type wrapped[I, O any] struct {
	inner RequestResponse[I, O]
}

func (w wrapped[I, O]) Name() string                         { return w.inner.Name() }
func (w wrapped[I, O]) IsAvailable(ctx context.Context) bool { return w.inner.IsAvailable(ctx) }

// WithLogging logs each call with its duration and outcome.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{wrapped: wrapped[I, O]{inner}, log: log}
	}
}

type loggingRR[I, O any] struct {
	wrapped[I, O]
	log *logger.Logger
}

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := logger.Fields(
		logger.FieldProvider, l.inner.Name(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	log := l.log.WithContext(ctx)
	if err != nil {
		log.Error("provider call failed", logger.MergeWithError(fields, err))
	} else {
		log.Debug("provider call ok", fields)
	}
	return output, err
}

// WithTracing opens a podscribe.provider.<name> span around each call.
func WithTracing[I, O any]() Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{wrapped: wrapped[I, O]{inner}}
	}
}

type tracingRR[I, O any] struct {
	wrapped[I, O]
}

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanProvider+t.inner.Name())
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrProvider, t.inner.Name())

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return output, err
}

// WithResilience retries failed calls and trips a circuit breaker named
// after the provider once failures pile up. The breaker is shared by every
// call through the returned provider.
func WithResilience[I, O any](policy resilience.Policy) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &resilientRR[I, O]{
			wrapped: wrapped[I, O]{inner},
			retry:   policy.Retry(),
			breaker: policy.Breaker(inner.Name()),
		}
	}
}

type resilientRR[I, O any] struct {
	wrapped[I, O]
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return resilience.GuardValue(ctx, r.retry, r.breaker, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}
