package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	apperrors "github.com/kbukum/podscribe/errors"
)

const maxErrorBody = 512

// ClassifyStatus converts a non-2xx status into an AppError. It returns nil
// for 2xx. Server errors and 429 are retryable, other client errors are not.
func ClassifyStatus(service string, statusCode int, body []byte) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusNotFound:
		return apperrors.NotFound(service+" resource", "").WithDetail("status", statusCode)
	case statusCode == http.StatusTooManyRequests:
		return apperrors.RateLimited().WithDetail("service", service)
	case statusCode >= 500:
		return apperrors.ExternalServiceError(service, statusError(statusCode, body)).
			WithDetail("status", statusCode)
	default:
		appErr := apperrors.ExternalServiceError(service, statusError(statusCode, body)).
			WithDetail("status", statusCode)
		appErr.Retryable = false
		return appErr
	}
}

// classifyTransport converts a failed round trip into an AppError. Context
// errors stay in the cause chain so retries stop on cancellation.
func classifyTransport(service string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(service).WithCause(err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.Timeout(service).WithCause(err)
	default:
		return apperrors.ConnectionFailed(service).WithCause(err)
	}
}

// StatusOf returns the HTTP status recorded on an error from this package,
// or 0 when the failure happened before a response arrived.
func StatusOf(err error) int {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return 0
	}
	if status, ok := appErr.Details["status"].(int); ok {
		return status
	}
	return 0
}

func statusError(statusCode int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if len(body) == 0 {
		return fmt.Errorf("HTTP %d", statusCode)
	}
	return fmt.Errorf("HTTP %d: %s", statusCode, body)
}
