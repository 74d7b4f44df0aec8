package process

import (
	"context"
	"time"

	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/provider"
	"github.com/kbukum/podscribe/resilience"
)

var _ provider.RequestResponse[Command, *Result] = (*Runner)(nil)

// Runner runs one tool with retries and a circuit breaker. Breaker state
// persists across calls, so a tool that keeps crashing is cut off.
type Runner struct {
	binary      string
	gracePeriod time.Duration
	retry       resilience.RetryConfig
	breaker     *resilience.CircuitBreaker
	log         *logger.Logger
}

// NewRunner creates a Runner for binary guarded by policy.
func NewRunner(binary string, policy resilience.Policy) *Runner {
	return &Runner{
		binary:  binary,
		retry:   policy.Retry(),
		breaker: policy.Breaker(binary),
		log:     logger.Get("process"),
	}
}

// WithGracePeriod sets the SIGTERM to SIGKILL delay for commands that do
// not set their own.
func (r *Runner) WithGracePeriod(d time.Duration) *Runner {
	r.gracePeriod = d
	return r
}

// Name returns the binary the runner drives.
func (r *Runner) Name() string { return r.binary }

// IsAvailable reports whether the binary is on PATH.
func (r *Runner) IsAvailable(context.Context) bool { return Available(r.binary) }

// Run executes args against the runner's binary.
func (r *Runner) Run(ctx context.Context, args ...string) (*Result, error) {
	return r.Execute(ctx, Command{Binary: r.binary, Args: args})
}

// Execute runs cmd through the retry loop and breaker. An empty Binary
// defaults to the runner's binary.
func (r *Runner) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		cmd.Binary = r.binary
	}
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = r.gracePeriod
	}

	attempt := 0
	return resilience.GuardValue(ctx, r.retry, r.breaker, func() (*Result, error) {
		attempt++
		res, err := Run(ctx, cmd)
		fields := logger.Fields("command", cmd.String(), "attempt", attempt)
		if res != nil {
			fields[logger.FieldDuration] = res.Duration.Milliseconds()
		}
		if err != nil {
			r.log.WithContext(ctx).Warn("command failed", logger.MergeWithError(fields, err))
			return res, err
		}
		r.log.WithContext(ctx).Debug("command finished", fields)
		return res, nil
	})
}
