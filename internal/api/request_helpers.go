package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cardchat/internal/api/shared"
	"github.com/phrazzld/cardchat/internal/platform/logger"
)

// decodeAndValidate decodes the JSON body into v and validates it. It writes
// a 400 response and returns false when either step fails.
//
// Parameters:
//   - w: The HTTP response writer
//   - r: The HTTP request
//   - v: Pointer to the request struct
//   - log: The logger to use, or nil for the request logger
//   - opts: Options for the error response, such as its log level
func decodeAndValidate(
	w http.ResponseWriter,
	r *http.Request,
	v interface{},
	log *slog.Logger,
	opts ...shared.ResponseOption,
) bool {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	if err := shared.DecodeJSON(r, v); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err, opts...)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err, opts...)
		return false
	}

	return true
}
