// internal/common/errors/handler.go
package errors

// ErrorHandler normalizes and logs command failures.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleCommandError logs a failed invocation and returns the error in the
// form handed back to the caller.
func (h *ErrorHandler) HandleCommandError(command, requestID string, err error) *StandardError {
	stdErr := FromError(err)
	if stdErr == nil {
		return nil
	}

	if h.logger != nil {
		h.logger.Error("Command failed", map[string]interface{}{
			"command":       command,
			"requestId":     requestID,
			"errorCode":     string(stdErr.Code),
			"errorCategory": GetErrorCategory(stdErr.Code),
			"message":       stdErr.Message,
			"details":       stdErr.Details,
		})
	}

	return stdErr
}
