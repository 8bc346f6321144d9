// Package errors provides the standardized error type returned by commands.
// The message of every error is what the UI shows; the code is used for
// logs, metrics labels and transport status mapping.
package errors

import (
	stderrors "errors"
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
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeTransportFailed ErrorCode = "TRANSPORT_FAILED"
	ErrCodeRemoteRejected  ErrorCode = "REMOTE_REJECTED"
	ErrCodeDecodeFailed    ErrorCode = "DECODE_FAILED"

	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileReadFailed ErrorCode = "FILE_READ_FAILED"

	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeUnknownCommand ErrorCode = "UNKNOWN_COMMAND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

// Error returns the human-readable message.
func (e *StandardError) Error() string {
	return e.Message
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigInvalidError reports a configuration problem found at startup.
func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration: "+details, details, nil)
}

// NewTransportError reports a request that never produced a response.
func NewTransportError(err error) *StandardError {
	return newError(ErrCodeTransportFailed, fmt.Sprintf("Request failed: %v", err), err.Error(), err)
}

// NewRemoteStatusError reports a read request answered with a non-success status.
func NewRemoteStatusError(status string) *StandardError {
	e := newError(ErrCodeRemoteRejected, "Failed to fetch data: "+status, status, nil)
	e.Metadata = map[string]interface{}{"status": status}
	return e
}

// NewRemoteRejectedError reports a write rejected by the remote service; the
// response body is carried verbatim.
func NewRemoteRejectedError(status, body string) *StandardError {
	e := newError(ErrCodeRemoteRejected, "Grist API returned error: "+body, body, nil)
	e.Metadata = map[string]interface{}{"status": status}
	return e
}

// NewDecodeError reports a response body that was not the expected JSON.
func NewDecodeError(err error) *StandardError {
	return newError(ErrCodeDecodeFailed, fmt.Sprintf("Failed to decode response: %v", err), err.Error(), err)
}

// NewFileNotFoundError reports a missing file; what names the file in the message.
func NewFileNotFoundError(what, path string) *StandardError {
	e := newError(ErrCodeFileNotFound, fmt.Sprintf("%s file not found at path: %s", what, path), path, nil)
	e.Metadata = map[string]interface{}{"path": path}
	return e
}

// NewFileReadError reports a filesystem failure other than a missing file.
func NewFileReadError(path string, err error) *StandardError {
	e := newError(ErrCodeFileReadFailed, err.Error(), path, err)
	e.Metadata = map[string]interface{}{"path": path}
	return e
}

// NewInvalidInputError reports command arguments that failed validation.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid command arguments: "+details, details, nil)
}

// NewUnknownCommandError reports a dispatch to a name nothing is registered under.
func NewUnknownCommandError(name string) *StandardError {
	return newError(ErrCodeUnknownCommand, fmt.Sprintf("Unknown command: %s", name), name, nil)
}

// ==========================
// 3. Utility Functions
// ==========================

// FromError returns err as a StandardError, wrapping foreign errors as internal.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, err.Error(), err.Error(), err)
}

// CodeOf returns the code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr := FromError(err); stdErr != nil {
		return stdErr.Code
	}
	return ""
}

// HTTPStatus maps an error code to the status the command server answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeUnknownCommand, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeTransportFailed, ErrCodeRemoteRejected, ErrCodeDecodeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "REMOTE") || strings.Contains(codeStr, "DECODE"):
		return "REMOTE"
	case strings.HasPrefix(codeStr, "FILE"):
		return "FILESYSTEM"
	case strings.Contains(codeStr, "INPUT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "COMMAND"):
		return "DISPATCH"
	default:
		return "OTHER"
	}
}
