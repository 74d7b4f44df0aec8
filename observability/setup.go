package observability

import (
	"context"
	"errors"
)

// ShutdownFunc flushes and stops the exporters installed by Setup.
type ShutdownFunc func(context.Context) error

// Setup installs the tracer and meter providers when cfg.Enabled. With
// telemetry disabled it returns a no-op shutdown and the global no-op
// providers stay in place.
func Setup(ctx context.Context, cfg Config, serviceName, version string) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, cfg, serviceName, version)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg, serviceName, version)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
