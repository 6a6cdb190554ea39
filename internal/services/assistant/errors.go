// File: internal/services/assistant/errors.go
package assistant

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeBackend    ErrorType = "BACKEND"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// Error is the normalized failure shape for every gateway call. Transport
// failures, non-2xx statuses and malformed bodies all collapse into one of
// these, with UserMessage carrying the text shown in the conversation.
type Error struct {
	Type        ErrorType
	Operation   string
	Code        int
	UserMessage string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assistant %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.UserMessage, e.Cause)
	}
	return fmt.Sprintf("assistant %s error in %s: %s", e.Type, e.Operation, e.UserMessage)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewNetworkError(operation, userMessage string, cause error) *Error {
	return &Error{Type: ErrTypeNetwork, Operation: operation, UserMessage: userMessage, Cause: cause}
}

func NewBackendError(operation string, code int, userMessage string) *Error {
	return &Error{Type: ErrTypeBackend, Operation: operation, Code: code, UserMessage: userMessage}
}

// UserMessage extracts the human-readable message for an error, falling back
// to a generic connectivity message. Callers never need to distinguish
// transport failure from application-level failure.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.UserMessage != "" {
		return ae.UserMessage
	}
	return "Network error. Please ensure the backend is running."
}
