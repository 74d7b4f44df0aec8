// Package bootstrap runs podscribe's process lifecycle: start hooks, a
// finite task or a long-running service, then stop hooks within a graceful
// timeout.
//
//	app := bootstrap.New("podscribe", version.Get().Version)
//	app.OnStop(shutdownTelemetry)
//	err := app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := processor.Process(ctx, req)
//	    return err
//	})
//
// SIGINT and SIGTERM cancel the task context or end a service's wait.
package bootstrap
