package process

import (
	"bytes"
	"fmt"
	"time"
)

const stderrTailBytes = 2048

// Result holds the output and status of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 if the process was killed.
	ExitCode int
	Duration time.Duration
}

// StderrTail returns the last part of stderr, where tools like ffmpeg print
// the actual failure reason.
func (r *Result) StderrTail() string {
	if r == nil {
		return ""
	}
	tail := r.Stderr
	if len(tail) > stderrTailBytes {
		tail = tail[len(tail)-stderrTailBytes:]
	}
	return string(bytes.TrimSpace(tail))
}

// ExitError reports a process that ran and exited non-zero.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit code %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit code %d: %s", e.Binary, e.ExitCode, e.Stderr)
}

func (e *ExitError) Unwrap() error { return e.Err }
