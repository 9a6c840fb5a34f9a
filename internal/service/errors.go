package service

import (
	"errors"
	"fmt"
)

// User-facing chat messages.
const (
	msgTopicRequired   = "Please tell me which topic the flashcards should cover, for example: create flashcards on photosynthesis."
	msgPromptRequired  = "Please enter a message."
	msgSomethingWrong  = "Sorry, something went wrong."
	msgFlashcardsFmt   = "Sorry, I couldn't generate flashcards on \"%s\"."
	defaultChatMessage = msgSomethingWrong
)

// ErrServiceUnavailable is returned when a service is used without its
// required dependencies.
var ErrServiceUnavailable = errors.New("service unavailable")

// ServiceError wraps errors from a service operation with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "save_flashcards", "get_flashcards")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. It returns nil for a nil err.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ChatError is the failure of one chat utterance. Message is safe to show to
// the user; Err keeps the underlying sentinel for status mapping.
type ChatError struct {
	Message string
	Err     error
}

// Error implements the error interface for ChatError.
func (e *ChatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chat failed: %s: %v", e.Message, e.Err)
	}
	return "chat failed: " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ChatError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message to show the user, falling back to a
// generic apology when none was set.
func (e *ChatError) UserMessage() string {
	if e.Message == "" {
		return defaultChatMessage
	}
	return e.Message
}

func newChatError(message string, err error) *ChatError {
	return &ChatError{Message: message, Err: err}
}
