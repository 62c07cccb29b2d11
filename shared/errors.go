package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type handled at the HTTP boundary. Services return
// one of the constructors below and the Fiber error handler maps it onto the
// uniform response envelope.
type AppError struct {
	StatusCode int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewValidationError(message string, data interface{}) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Data:       data,
	}
}

func NewRateLimitError(message string, data interface{}) *AppError {
	return &AppError{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		Data:       data,
	}
}

// NewStoreUnavailableError covers Redis outages. The rate limiter fails
// closed, so a store error always surfaces as 503 rather than letting
// requests through unmetered.
func NewStoreUnavailableError(err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, err, "Service temporarily unavailable. Please try again later.")
}

func NewUpstreamError(err error, message string) *AppError {
	return NewAppError(http.StatusBadGateway, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
