package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/cardchat/internal/api/shared"
	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/phrazzld/cardchat/internal/service"
)

// FlashcardHandler handles flashcard set HTTP requests
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	logger           *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(flashcardService service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if flashcardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("flashcardService cannot be nil for FlashcardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardHandler{
		flashcardService: flashcardService,
		logger:           logger.With(slog.String("component", "flashcard_handler")),
	}
}

// ListFlashcards handles GET /api/flashcards requests.
// It returns the id and topic of every saved set, oldest first.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.flashcardService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch flashcard sets")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, summariesToResponse(summaries))
}

// SaveFlashcards handles POST /api/flashcards requests.
// It persists a set the user chose to keep and returns it with its new ID.
// Rejected saves log at WARN: the client discarded a set the user wanted kept.
func (h *FlashcardHandler) SaveFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SaveFlashcardsRequest
	if !decodeAndValidate(w, r, &req, log, shared.WithElevatedLogLevel()) {
		return
	}

	set, err := h.flashcardService.Save(r.Context(), req.Topic, req.Pairs())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save flashcard set", shared.WithElevatedLogLevel())
		return
	}

	log.Debug("flashcard set saved", slog.String("set_id", set.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, setToResponse(set))
}

// GetFlashcards handles GET /api/flashcards/{id} requests.
func (h *FlashcardHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	set, err := h.flashcardService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch flashcard set")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, setToResponse(set))
}

// GetCards handles GET /api/flashcards/{id}/cards requests.
// It returns only the ordered cards of a set for the card viewer.
func (h *FlashcardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.flashcardService.Cards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch flashcards")
		return
	}

	shared.RespondWithFlashcards(w, r, cardsToResponse(cards))
}
