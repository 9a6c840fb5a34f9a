package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/phrazzld/cardchat/internal/redact"
)

// ContentResponse is the envelope for a plain chat answer.
type ContentResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// DataResponse is the envelope for a flashcard set or a list of summaries.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// FlashcardsResponse is the envelope for the card-only view of a set.
type FlashcardsResponse struct {
	Success    bool        `json:"success"`
	Flashcards interface{} `json:"flashcards"`
}

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"-"` // Not serialized to JSON, used for logging
	TraceID string `json:"trace_id,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN
// level instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithContent writes {"success":true,"content":...}.
func RespondWithContent(w http.ResponseWriter, r *http.Request, content string) {
	RespondWithJSON(w, r, http.StatusOK, ContentResponse{Success: true, Content: content})
}

// RespondWithData writes {"success":true,"data":...} with the given status.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	RespondWithJSON(w, r, status, DataResponse{Success: true, Data: data})
}

// RespondWithFlashcards writes {"success":true,"flashcards":...}.
func RespondWithFlashcards(w http.ResponseWriter, r *http.Request, flashcards interface{}) {
	RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{Success: true, Flashcards: flashcards})
}

// RespondWithErrorAndLog writes a JSON error response and also logs the
// redacted detailed error. Only userMessage reaches the client.
//
// Log level strategy:
// - 5xx errors: ERROR
// - 4xx errors: DEBUG, or WARN with WithElevatedLogLevel()
//
// The request logger already carries the trace id, so it is not repeated here.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Success: false,
		Error:   userMessage,
		Code:    status,
		TraceID: traceID,
	})
}
