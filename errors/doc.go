// Package errors provides the unified error type used across podscribe.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, a human message, retryable detection and optional
// details. Domain codes cover the transcript pipeline: malformed transcript
// or diarization input, an unavailable diarization backend, unsupported
// platforms and audio formats.
package errors
