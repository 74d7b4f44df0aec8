package media

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
)

type fakeExec struct {
	commands []process.Command
	probe    string
	err      error
}

func (f *fakeExec) Execute(_ context.Context, cmd process.Command) (*process.Result, error) {
	f.commands = append(f.commands, cmd)
	if f.err != nil {
		return &process.Result{ExitCode: 1}, f.err
	}
	if cmd.Binary == "ffprobe" {
		return &process.Result{Stdout: []byte(f.probe)}, nil
	}
	return &process.Result{}, nil
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToWAV(t *testing.T) {
	input := touch(t, "download.M4A")
	fx := &fakeExec{}
	c := NewConverter(Config{}, WithExecutor(fx))

	out, err := c.ToWAV(context.Background(), input, "episode-42")
	if err != nil {
		t.Fatalf("ToWAV: %v", err)
	}
	want := filepath.Join(filepath.Dir(input), "episode-42.wav")
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if len(fx.commands) != 1 {
		t.Fatalf("commands = %d", len(fx.commands))
	}
	line := fx.commands[0].String()
	for _, part := range []string{"ffmpeg", "-i " + input, "-ac 1", "-ar 16000", "-f wav " + want} {
		if !strings.Contains(line, part) {
			t.Errorf("command %q missing %q", line, part)
		}
	}
}

func TestToWAVRejectsUnsupportedFormats(t *testing.T) {
	fx := &fakeExec{}
	c := NewConverter(Config{}, WithExecutor(fx))
	for _, name := range []string{"talk.ogg", "talk.wav", "talk"} {
		t.Run(name, func(t *testing.T) {
			_, err := c.ToWAV(context.Background(), touch(t, name), "talk")
			if !apperrors.IsCode(err, apperrors.ErrCodeUnsupportedFormat) {
				t.Errorf("expected UNSUPPORTED_FORMAT, got %v", err)
			}
		})
	}
	if len(fx.commands) != 0 {
		t.Errorf("ffmpeg should not run for unsupported input")
	}
}

func TestToWAVMissingInput(t *testing.T) {
	c := NewConverter(Config{}, WithExecutor(&fakeExec{}))
	_, err := c.ToWAV(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"), "gone")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestToWAVToolFailure(t *testing.T) {
	fx := &fakeExec{err: &process.ExitError{Binary: "ffmpeg", ExitCode: 1, Stderr: "Invalid data"}}
	c := NewConverter(Config{}, WithExecutor(fx))
	_, err := c.ToWAV(context.Background(), touch(t, "bad.mp3"), "bad")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeExternalService || appErr.Retryable {
		t.Fatalf("expected permanent EXTERNAL_SERVICE_ERROR, got %v", err)
	}
	var exitErr *process.ExitError
	if !errors.As(err, &exitErr) {
		t.Error("exit error should stay in the chain")
	}
}

func TestTrimStart(t *testing.T) {
	input := touch(t, "episode.wav")
	output := TrimmedPath(input)

	t.Run("zero is a no-op", func(t *testing.T) {
		fx := &fakeExec{}
		got, err := NewConverter(Config{}, WithExecutor(fx)).TrimStart(context.Background(), input, output, 0)
		if err != nil || got != input || len(fx.commands) != 0 {
			t.Errorf("got %q, %v, %d commands", got, err, len(fx.commands))
		}
	})

	t.Run("trims", func(t *testing.T) {
		fx := &fakeExec{probe: `{"format":{"duration":"120.5"},"streams":[{"codec_name":"pcm_s16le"}]}`}
		got, err := NewConverter(Config{}, WithExecutor(fx)).TrimStart(context.Background(), input, output, 10*time.Second)
		if err != nil {
			t.Fatalf("TrimStart: %v", err)
		}
		if got != output {
			t.Errorf("output = %q", got)
		}
		if len(fx.commands) != 2 || !strings.Contains(fx.commands[1].String(), "-ss 10.000 -i "+input) {
			t.Errorf("unexpected commands %v", fx.commands)
		}
	})

	t.Run("longer than audio", func(t *testing.T) {
		fx := &fakeExec{probe: `{"format":{"duration":"5.0"}}`}
		_, err := NewConverter(Config{}, WithExecutor(fx)).TrimStart(context.Background(), input, output, 10*time.Second)
		if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})
}

func TestTrimmedPath(t *testing.T) {
	if got := TrimmedPath("/out/show.wav"); got != "/out/show_trimmed.wav" {
		t.Errorf("TrimmedPath = %q", got)
	}
}

func TestProbe(t *testing.T) {
	fx := &fakeExec{probe: `{"format":{"duration":"61.25"},"streams":[{"codec_name":"aac","sample_rate":"44100","channels":2}]}`}
	info, err := NewConverter(Config{}, WithExecutor(fx)).Probe(context.Background(), "in.m4a")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Duration != 61250*time.Millisecond || info.Codec != "aac" || info.SampleRate != 44100 || info.Channels != 2 {
		t.Errorf("info = %+v", info)
	}

	if _, err := parseProbe([]byte("not json")); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.FFmpeg != "ffmpeg" || cfg.SampleRate != 16000 || cfg.Channels != 1 {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := (&Config{Channels: 6}).Validate(); err == nil {
		t.Error("expected error for 6 channels")
	}
}
