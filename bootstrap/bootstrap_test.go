package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/podscribe/logger"
)

func newTestApp(opts ...Option) *App {
	opts = append([]Option{WithLogger(logger.Nop()), WithSummaryOutput(nil)}, opts...)
	return New("podscribe", "1.0.0", opts...)
}

func TestNew(t *testing.T) {
	app := newTestApp()
	if app.Name != "podscribe" || app.Version != "1.0.0" {
		t.Errorf("Name/Version = %q/%q", app.Name, app.Version)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("gracefulTimeout = %v, want 15s", app.gracefulTimeout)
	}
	if app.Summary == nil {
		t.Error("Summary is nil")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app := newTestApp(WithGracefulTimeout(3 * time.Second))
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("gracefulTimeout = %v, want 3s", app.gracefulTimeout)
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app := newTestApp()
	executed := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if !executed {
		t.Error("task not executed")
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp()
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("task error")
	})
	if err == nil || err.Error() != "task error" {
		t.Errorf("err = %v, want task error", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp()
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunTaskHookOrder(t *testing.T) {
	app := newTestApp()
	var order []string
	app.OnStart(func(context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnStop(
		func(context.Context) error {
			order = append(order, "stop-first")
			return nil
		},
		func(context.Context) error {
			order = append(order, "stop-second")
			return nil
		},
	)

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	want := "start,task,stop-second,stop-first"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestRunTaskStartHookError(t *testing.T) {
	app := newTestApp()
	stopped := false
	app.OnStart(func(context.Context) error { return errors.New("no ffmpeg") })
	app.OnStop(func(context.Context) error {
		stopped = true
		return nil
	})

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "no ffmpeg") {
		t.Errorf("err = %v, want start hook error", err)
	}
	if ran {
		t.Error("task ran after failed start hook")
	}
	if !stopped {
		t.Error("stop hooks did not run")
	}
}

func TestRunTaskStopHookError(t *testing.T) {
	t.Run("reported when task succeeds", func(t *testing.T) {
		app := newTestApp()
		app.OnStop(func(context.Context) error { return errors.New("flush failed") })
		err := app.RunTask(context.Background(), func(context.Context) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "flush failed") {
			t.Errorf("err = %v, want stop error", err)
		}
	})

	t.Run("task error wins", func(t *testing.T) {
		app := newTestApp()
		app.OnStop(func(context.Context) error { return errors.New("flush failed") })
		err := app.RunTask(context.Background(), func(context.Context) error { return errors.New("task failed") })
		if err == nil || err.Error() != "task failed" {
			t.Errorf("err = %v, want task failed", err)
		}
	})

	t.Run("every hook runs", func(t *testing.T) {
		app := newTestApp()
		ran := 0
		app.OnStop(
			func(context.Context) error { ran++; return nil },
			func(context.Context) error { ran++; return errors.New("boom") },
		)
		_ = app.RunTask(context.Background(), func(context.Context) error { return nil })
		if ran != 2 {
			t.Errorf("hooks ran = %d, want 2", ran)
		}
	})
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := newTestApp()
	stopped := false
	app.OnStop(func(context.Context) error {
		stopped = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx, func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return nil
		})
	}()

	<-started
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !stopped {
		t.Error("stop hooks did not run")
	}
}

func TestRunReturnsServeError(t *testing.T) {
	app := newTestApp()
	err := app.Run(context.Background(), func(context.Context) error {
		return errors.New("address in use")
	})
	if err == nil || !strings.Contains(err.Error(), "address in use") {
		t.Errorf("err = %v, want serve error", err)
	}
}

func TestShutdown(t *testing.T) {
	app := newTestApp()
	called := false
	app.OnStop(func(context.Context) error {
		called = true
		return nil
	})
	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !called {
		t.Error("stop hook not called")
	}
}

func TestSummaryDisplay(t *testing.T) {
	s := NewSummary("podscribe", "1.2.0")
	s.SetStartupDuration(1500 * time.Millisecond)
	s.TrackComponent("whisper", "transcription", "http://localhost:8387", true)
	s.TrackComponent("pyannote", "diarization", "http://localhost:8388", false)
	s.TrackRoute("POST", "/v1/align")
	s.TrackRoute("GET", "/health")

	var buf bytes.Buffer
	s.Display(&buf)
	out := buf.String()

	for _, want := range []string{
		"podscribe 1.2.0 started in 1.50s",
		"├── ✅ whisper [transcription] http://localhost:8387",
		"└── ⚠️ pyannote [diarization]",
		"1/2 components reachable",
		"Routes (2)",
		"POST    /v1/align",
		"└── GET     /health",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if len(s.Components()) != 2 {
		t.Errorf("Components = %d, want 2", len(s.Components()))
	}
}

func TestSummaryDisplayEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewSummary("podscribe", "dev").Display(&buf)
	if strings.Contains(buf.String(), "Components") || strings.Contains(buf.String(), "Routes") {
		t.Errorf("empty summary printed sections:\n%s", buf.String())
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" || treePrefix(1, 2) != "└──" {
		t.Error("unexpected tree prefixes")
	}
}
