package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/podscribe/logger"
)

// App is one podscribe process with uniform startup and shutdown.
type App struct {
	Name    string
	Version string
	Logger  *logger.Logger
	Summary *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer

	onStart []Hook
	onStop  []Hook
}

// New creates an application. Call logger.Init first when the global
// logger should follow configuration.
func New(name, version string, opts ...Option) *App {
	o := resolveOptions(opts)
	app := &App{
		Name:            name,
		Version:         version,
		Logger:          logger.GetGlobalLogger(),
		Summary:         NewSummary(name, version),
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stderr,
	}
	if o.logger != nil {
		app.Logger = o.logger
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}
	return app
}

// Run starts a long-running service: start hooks, then serve in the
// background until a signal, context cancellation or serve returning. Stop
// hooks always run once start hooks have succeeded.
func (a *App) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return errors.Join(err, a.stop())
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- serve(serveCtx) }()

	a.Logger.Info("application ready")
	var serveErr error
	select {
	case serveErr = <-done:
	case <-a.waitForSignal(serveCtx):
		cancel()
		serveErr = <-done
	}
	return errors.Join(serveErr, a.stop())
}

// RunTask runs a finite task. SIGINT and SIGTERM cancel the task context;
// stop hooks run when the task returns. The task error takes precedence
// over a stop error.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return errors.Join(err, a.stop())
	}

	taskCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Shutdown runs the stop hooks. Use it when managing the lifecycle manually.
func (a *App) Shutdown() error {
	return a.stop()
}

func (a *App) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("start hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Display(a.summaryOut)
	return nil
}

// waitForSignal closes the returned channel on SIGINT, SIGTERM or ctx end.
func (a *App) waitForSignal(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		case <-ctx.Done():
		}
	}()
	return out
}

// stop runs stop hooks newest first within the graceful timeout. Every
// hook runs; errors are joined.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	for i := len(a.onStop) - 1; i >= 0; i-- {
		if err := a.onStop[i](ctx); err != nil {
			a.Logger.Error("stop hook failed", logger.MergeWithError(logger.Fields("hook", i), err))
			errs = append(errs, err)
		}
	}
	a.Logger.Debug("application stopped")
	return errors.Join(errs...)
}
