package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cardchat/internal/api/shared"
	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/phrazzld/cardchat/internal/service"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatService service.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService service.ChatService, logger *slog.Logger) *ChatHandler {
	if chatService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("chatService cannot be nil for ChatHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChatHandler{
		chatService: chatService,
		logger:      logger.With(slog.String("component", "chat_handler")),
	}
}

// Chat handles POST /api/chat requests.
// A plain answer is returned as {"success":true,"content":...}; a generated
// flashcard set as {"success":true,"data":{...}}. Generated sets are not saved.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ChatRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	reply, err := h.chatService.Respond(r.Context(), service.ChatRequest{
		Prompt:  req.Prompt,
		History: req.Turns(),
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, chatStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if reply.IsFlashcards() {
		log.Debug("returning generated flashcards", slog.Int("card_count", len(reply.Set.Cards)))
		shared.RespondWithData(w, r, http.StatusOK, setToResponse(reply.Set))
		return
	}

	shared.RespondWithContent(w, r, reply.Content)
}
