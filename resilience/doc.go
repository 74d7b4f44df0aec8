// Package resilience wraps calls to the external pieces of the pipeline
// (sidecar HTTP services, podcast sites, ffmpeg and yt-dlp) with retry and
// circuit breaking.
//
// A Policy is the configurable form; it builds the RetryConfig and
// CircuitBreaker that Guard applies:
//
//	policy := resilience.Policy{MaxAttempts: 3}
//	policy.ApplyDefaults()
//	breaker := policy.Breaker("whisper")
//	err := resilience.Guard(ctx, policy.Retry(), breaker, func() error {
//	    return callWhisper(ctx)
//	})
//
// Errors are retried according to their AppError Retryable flag. Plain
// errors are retried unless the context is done.
package resilience
