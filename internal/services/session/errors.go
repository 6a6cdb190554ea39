// File: internal/services/session/errors.go
package session

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeBusy       ErrorType = "BUSY"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
)

type SessionError struct {
	Type      ErrorType
	Operation string
	Message   string
	SessionID string
}

func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("session %s error in %s: %s (session: %s)",
			e.Type, e.Operation, e.Message, e.SessionID)
	}
	return fmt.Sprintf("session %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func NewValidationError(operation, msg string) *SessionError {
	return &SessionError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewBusyError(operation string) *SessionError {
	return &SessionError{Type: ErrTypeBusy, Operation: operation, Message: "A request is already in progress."}
}

func NewNotFoundError(operation, sessionID string) *SessionError {
	return &SessionError{Type: ErrTypeNotFound, Operation: operation, Message: "session not found", SessionID: sessionID}
}
