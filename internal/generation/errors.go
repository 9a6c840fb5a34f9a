package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrUpstreamUnavailable is returned when the LLM service cannot be reached
	// or does not answer before the request deadline.
	ErrUpstreamUnavailable = errors.New("language model service unavailable")

	// ErrUpstreamRejected is returned when the LLM service answers with a
	// non-success status or refuses to produce content.
	ErrUpstreamRejected = errors.New("language model service rejected the request")

	// ErrUpstreamMisconfigured is returned at construction time when the
	// provider is missing a credential or model.
	ErrUpstreamMisconfigured = errors.New("language model provider misconfigured")

	// ErrMalformedResponse is returned when generated content cannot be parsed
	// or does not have the flashcard shape.
	ErrMalformedResponse = errors.New("malformed response from language model")
)

// UpstreamError carries the diagnostics of a rejected LLM request.
// It always matches ErrUpstreamRejected with errors.Is.
type UpstreamError struct {
	Provider   string // e.g. "gemini", "openai"
	StatusCode int    // HTTP status, 0 when the rejection is not an HTTP failure
	Status     string // upstream status text or finish reason
	Message    string // upstream error message
}

// Error implements the error interface for UpstreamError.
func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s rejected the request (status %d %s): %s",
			e.Provider, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s rejected the request (%s): %s", e.Provider, e.Status, e.Message)
}

// Unwrap returns ErrUpstreamRejected to support errors.Is.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamRejected
}
