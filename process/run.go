package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
)

const defaultGracePeriod = 5 * time.Second

// Run executes a subprocess and waits for it to complete. A missing binary
// fails with a non-retryable SERVICE_UNAVAILABLE error, a non-zero exit with
// *ExitError, and cancellation with the context's error.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, apperrors.MissingField("binary")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = defaultGracePeriod
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running configured tools is the point
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	start := time.Now()
	err := c.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("%s: killed by context: %w", cmd.Binary, ctx.Err())
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		appErr := apperrors.ServiceUnavailable(cmd.Binary).WithCause(err)
		appErr.Retryable = false
		return nil, appErr
	}
	return result, &ExitError{
		Binary:   cmd.Binary,
		ExitCode: result.ExitCode,
		Stderr:   result.StderrTail(),
		Err:      err,
	}
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}

// Available reports whether binary resolves to an executable.
func Available(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
