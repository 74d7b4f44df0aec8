package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON body the HTTP API returns on failure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// HTTPStatusOf returns the status for err; plain errors map to 500.
func HTTPStatusOf(err error) int {
	appErr, ok := AsAppError(err)
	if !ok || appErr.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return appErr.HTTPStatus
}
