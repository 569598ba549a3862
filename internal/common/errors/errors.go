// Package errors provides standardized error handling for the recruitment API client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport failures: the request never produced a response.
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"

	// HTTP failures: a response arrived with a non-2xx status.
	ErrCodeHTTPError     ErrorCode = "HTTP_ERROR"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnprocessable ErrorCode = "UNPROCESSABLE_ENTITY"
	ErrCodeServerError   ErrorCode = "SERVER_ERROR"

	// Client-side failures: no network call was made, or the response was unusable.
	ErrCodeDecodeError      ErrorCode = "DECODE_ERROR"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Domain conditions.
	ErrCodeUploadFailed      ErrorCode = "UPLOAD_FAILED"
	ErrCodeStatusInitPartial ErrorCode = "STATUS_INIT_PARTIAL"
)

// APIError represents a structured client error.
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	HTTPStatus int       `json:"httpStatus,omitempty"`
	Retryable  bool      `json:"retryable"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *APIError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("APIError[%s]: %s (HTTP %d)", e.Code, e.Message, e.HTTPStatus)
	}
	return fmt.Sprintf("APIError[%s]: %s", e.Code, e.Message)
}

// FieldError is one field-level validation failure. Validation errors block
// submission locally and never reach the network.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full set of field-level failures for a payload.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("ValidationError: %s", strings.Join(parts, "; "))
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkError creates a retryable transport error.
func NewNetworkError(err error) *APIError {
	return &APIError{
		Code:      ErrCodeNetworkError,
		Message:   "Request failed before a response was received",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHTTPError creates an error for a non-2xx response. The message is taken
// from the structured response body when available.
func NewHTTPError(status int, message string) *APIError {
	code := ErrCodeHTTPError
	retryable := false
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = ErrCodeUnauthorized
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status == http.StatusUnprocessableEntity:
		code = ErrCodeUnprocessable
	case status >= 500:
		code = ErrCodeServerError
		retryable = true
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Retryable:  retryable,
		Timestamp:  time.Now().UTC(),
	}
}

// NewDecodeError creates a non-retryable response decode error.
func NewDecodeError(err error) *APIError {
	return &APIError{
		Code:      ErrCodeDecodeError,
		Message:   "Failed to decode response body",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError creates a retryable upload error.
func NewUploadFailedError(err error) *APIError {
	return &APIError{
		Code:      ErrCodeUploadFailed,
		Message:   "Resume upload failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusInitPartialError marks the best-effort initial-status chain as
// partially applied. The application record itself is not rolled back.
func NewStatusInitPartialError(applicationID string, err error) *APIError {
	return &APIError{
		Code:      ErrCodeStatusInitPartial,
		Message:   "Application created but initial status assignment did not fully apply",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == status
	}
	return false
}

// IsNotFound reports whether err represents an HTTP 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsRetryable reports whether err may be retried. 404 and 422 map to
// known-absent resources and must never be retried.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatus == http.StatusNotFound || apiErr.HTTPStatus == http.StatusUnprocessableEntity {
			return false
		}
		return apiErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NETWORK"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DECODE"):
		return "DECODE"
	case strings.Contains(codeStr, "STATUS_INIT"):
		return "SAGA"
	case strings.Contains(codeStr, "UPLOAD"):
		return "UPLOAD"
	default:
		return "HTTP"
	}
}
