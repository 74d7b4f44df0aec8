package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError carries a code, a user-facing message and the HTTP status the
// server responds with. Retryable follows the code unless a constructor
// overrides it.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithDetail sets one detail.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose Retryable flag comes from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Wrap returns the AppError in err's chain, or an internal error around err.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// IsCode reports whether err's chain holds an AppError with code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// Availability.

func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

func ConnectionFailed(service string) *AppError {
	return New(ErrCodeConnectionFailed, fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, fmt.Sprintf("%s took too long.", operation), http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

// Input.

// NotFound reports a missing resource; id is optional.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation is an INVALID_INPUT error with a preformatted message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetail("field", field)
}

func InvalidFormat(field, expectedFormat string) *AppError {
	return New(ErrCodeInvalidFormat, fmt.Sprintf("Invalid format for %s. Expected: %s", field, expectedFormat), http.StatusBadRequest).
		WithDetails(map[string]any{"field": field, "expected_format": expectedFormat})
}

// MalformedInput reports a segment or turn whose interval has end < start,
// or a segment that starts before its predecessor. kind is "segment" or
// "turn" and index is the position in the input collection.
func MalformedInput(kind string, index int, start, end float64, reason string) *AppError {
	return New(ErrCodeMalformedInput, fmt.Sprintf("Malformed %s %d [%.3f, %.3f]: %s", kind, index, start, end, reason), http.StatusBadRequest).
		WithDetails(map[string]any{"kind": kind, "index": index, "start": start, "end": end})
}

// Sources and media.

func UnsupportedPlatform(url string) *AppError {
	return New(ErrCodeUnsupportedPlatform, "Unrecognized link platform. Supported: Apple Podcasts, Xiaoyuzhou, Bilibili, YouTube.", http.StatusBadRequest).
		WithDetail("url", url)
}

// AudioNotFound reports a page that exposed no audio link.
func AudioNotFound(source, reason string) *AppError {
	return New(ErrCodeAudioNotFound, fmt.Sprintf("No audio found on %s: %s", source, reason), http.StatusNotFound).
		WithDetail("source", source)
}

func UnsupportedFormat(path string, supported ...string) *AppError {
	return New(ErrCodeUnsupportedFormat, "Unsupported audio format. Supported: "+strings.Join(supported, ", "), http.StatusBadRequest).
		WithDetail("path", path)
}

// Backends.

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.", http.StatusInternalServerError).WithCause(cause)
}

func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService, fmt.Sprintf("The %s service returned an error.", service), http.StatusBadGateway).
		WithDetail("service", service).WithCause(cause)
}

// DiarizationUnavailable marks a diarization backend that failed as a whole.
// Runs continue with an unlabeled transcript.
func DiarizationUnavailable(cause error) *AppError {
	return New(ErrCodeDiarizationUnavailable, "Speaker diarization is unavailable; continuing without speaker labels.", http.StatusServiceUnavailable).
		WithCause(cause)
}
