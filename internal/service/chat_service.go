package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/platform/logger"
)

// Completer is the part of the completion client the chat service needs.
// *generation.Client satisfies it.
type Completer interface {
	GenerateFlashcards(ctx context.Context, topic string) (string, error)
	Answer(ctx context.Context, history []domain.ChatTurn, utterance string) (string, error)
}

var _ Completer = (*generation.Client)(nil)

// ChatRequest is one user utterance plus the earlier turns the caller chose
// to re-submit.
type ChatRequest struct {
	Prompt  string
	History []domain.ChatTurn
}

// ChatReply is the outcome of a successful utterance: either a plain answer
// in Content or a generated, unsaved flashcard set in Set.
type ChatReply struct {
	Content string
	Set     *domain.FlashcardSet
}

// IsFlashcards reports whether the reply carries a flashcard set.
func (r *ChatReply) IsFlashcards() bool {
	return r.Set != nil
}

// ChatService answers chat utterances.
type ChatService interface {
	// Respond handles one utterance. Failures are always *ChatError.
	// A generated flashcard set is returned for display only; it is never
	// persisted here.
	Respond(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

// chatServiceImpl implements the ChatService interface
type chatServiceImpl struct {
	completer  Completer
	classifier Classifier
	logger     *slog.Logger
}

// NewChatService creates a new ChatService. A nil classifier selects the
// default trigger phrase classifier.
func NewChatService(completer Completer, classifier Classifier, logger *slog.Logger) (ChatService, error) {
	if completer == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "completer cannot be nil",
			Err:       ErrServiceUnavailable,
		}
	}
	if classifier == nil {
		classifier = NewTriggerPhraseClassifier(DefaultTriggerPhrase)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &chatServiceImpl{
		completer:  completer,
		classifier: classifier,
		logger:     logger.With("component", "chat_service"),
	}, nil
}

// Respond implements ChatService.Respond
func (s *chatServiceImpl) Respond(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, newChatError(msgPromptRequired,
			fmt.Errorf("%w: prompt cannot be empty", domain.ErrInvalidInput))
	}

	classification := s.classifier.Classify(prompt)
	log.Debug("classified chat message",
		"intent", classification.Intent.String(),
		"topic", classification.Topic,
		"history_length", len(req.History))

	if classification.Intent == IntentFlashcards {
		return s.flashcards(ctx, log, classification.Topic)
	}
	return s.answer(ctx, log, req.History, prompt)
}

func (s *chatServiceImpl) flashcards(ctx context.Context, log *slog.Logger, topic string) (*ChatReply, error) {
	if topic == "" {
		return nil, newChatError(msgTopicRequired, domain.ErrTopicEmpty)
	}

	fail := func(stage string, err error) (*ChatReply, error) {
		log.Error("flashcard generation failed",
			"stage", stage,
			"topic", topic,
			"error", err)
		return nil, newChatError(fmt.Sprintf(msgFlashcardsFmt, topic), err)
	}

	raw, err := s.completer.GenerateFlashcards(ctx, topic)
	if err != nil {
		return fail("generate", err)
	}

	pairs, err := generation.Extract(raw)
	if err != nil {
		return fail("extract", err)
	}

	set, err := domain.NewFlashcardSet(topic, pairs)
	if err != nil {
		return fail("build", err)
	}

	log.Info("flashcards generated", "topic", topic, "card_count", len(set.Cards))
	return &ChatReply{Set: set}, nil
}

func (s *chatServiceImpl) answer(
	ctx context.Context,
	log *slog.Logger,
	history []domain.ChatTurn,
	prompt string,
) (*ChatReply, error) {
	content, err := s.completer.Answer(ctx, history, prompt)
	if err != nil {
		log.Error("chat answer failed", "error", err)
		return nil, newChatError(msgSomethingWrong, err)
	}
	return &ChatReply{Content: content}, nil
}
