package errors

// ErrorCode is the machine-readable part of an AppError.
type ErrorCode string

// Backend availability. These are retryable.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Caller input.
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrCodeMalformedInput rejects a whole segment or turn collection.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"
)

// Sources and media.
const (
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	ErrCodeAudioNotFound       ErrorCode = "AUDIO_NOT_FOUND"
	ErrCodeUnsupportedFormat   ErrorCode = "UNSUPPORTED_FORMAT"
)

const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDiarizationUnavailable degrades a run instead of failing it.
	ErrCodeDiarizationUnavailable ErrorCode = "DIARIZATION_UNAVAILABLE"
)

// IsRetryableCode reports whether an operation failing with code may succeed
// when repeated.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeServiceUnavailable, ErrCodeConnectionFailed, ErrCodeTimeout,
		ErrCodeRateLimited, ErrCodeExternalService:
		return true
	}
	return false
}
