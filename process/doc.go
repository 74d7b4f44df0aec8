// Package process runs the external tools podscribe drives (ffmpeg, ffprobe,
// yt-dlp) as subprocesses in their own process group.
//
// Cancelling the context sends SIGTERM to the whole group and SIGKILL after
// the command's grace period. A non-zero exit is reported as *ExitError
// carrying the tail of stderr.
//
// Runner adds retries and a circuit breaker for tools that talk to the
// network, and satisfies provider.RequestResponse so it can be decorated
// with provider middleware.
package process
