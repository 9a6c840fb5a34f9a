package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/cardchat/internal/api/shared"
	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/service"
	"github.com/phrazzld/cardchat/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyResult),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// chatStatusCode maps a chat failure to a status code. Only caller mistakes
// are 400; everything that went wrong while generating is 500, including an
// empty flashcard list.
func chatStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// genericErrorMessage is the safe message for errors with no specific mapping.
const genericErrorMessage = "An unexpected error occurred"

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var chatErr *service.ChatError
	if errors.As(err, &chatErr) {
		return chatErr.UserMessage()
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid flashcard set ID"

	case errors.Is(err, store.ErrNotFound):
		return "Flashcard set not found"

	case errors.Is(err, domain.ErrEmptyResult):
		return "At least one card is required"

	case errors.Is(err, domain.ErrTopicEmpty):
		return "Topic is required"

	case errors.Is(err, domain.ErrTermEmpty),
		errors.Is(err, domain.ErrDefinitionEmpty):
		return "Every card needs a term and a definition"

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid input"

	case errors.Is(err, store.ErrDuplicate):
		return "Flashcard set already exists"

	case errors.Is(err, store.ErrStoreUnavailable),
		errors.Is(err, store.ErrTransactionFailed):
		return "Flashcard storage is unavailable"

	case errors.Is(err, generation.ErrUpstreamUnavailable),
		errors.Is(err, generation.ErrUpstreamRejected),
		errors.Is(err, generation.ErrMalformedResponse):
		return "The assistant is unavailable, please try again later"

	default:
		return genericErrorMessage
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message naming the first failing field.
func SanitizeValidationError(err error) string {
	if errors.Is(err, shared.ErrEmptyBody) {
		return "Request body is required"
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field(), getValidationTagMessage(fieldErr.Tag()))
	}

	return "Invalid request format"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required", "notblank":
		return "required field"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err using the standard
// status mapping. fallback names the failed operation and replaces the
// generic message of unmapped errors; mapped errors keep their own message.
func HandleAPIError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	fallback string,
	opts ...shared.ResponseOption,
) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if message == genericErrorMessage && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
