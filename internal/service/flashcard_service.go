package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/phrazzld/cardchat/internal/store"
)

// FlashcardService provides flashcard set operations
type FlashcardService interface {
	// Save builds a set from topic and pairs and persists it.
	// The returned set carries its store-assigned ID and CreatedAt.
	Save(ctx context.Context, topic string, pairs []domain.FlashcardPair) (*domain.FlashcardSet, error)

	// List returns the summaries of all stored sets in insertion order.
	List(ctx context.Context) ([]domain.FlashcardSummary, error)

	// Get retrieves a set by its caller-supplied identifier.
	Get(ctx context.Context, rawID string) (*domain.FlashcardSet, error)

	// Cards retrieves only the cards of a set, in order.
	Cards(ctx context.Context, rawID string) ([]domain.FlashcardPair, error)
}

// flashcardServiceImpl implements the FlashcardService interface
type flashcardServiceImpl struct {
	store  store.FlashcardStore
	logger *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
// It returns an error if the store is nil.
func NewFlashcardService(flashcardStore store.FlashcardStore, logger *slog.Logger) (FlashcardService, error) {
	if flashcardStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "flashcardStore cannot be nil",
			Err:       ErrServiceUnavailable,
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		store:  flashcardStore,
		logger: logger.With("component", "flashcard_service"),
	}, nil
}

// Save implements FlashcardService.Save
func (s *flashcardServiceImpl) Save(
	ctx context.Context,
	topic string,
	pairs []domain.FlashcardPair,
) (*domain.FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := domain.NewFlashcardSet(strings.TrimSpace(topic), pairs)
	if err != nil {
		log.Debug("rejected flashcard set", "error", err, "card_count", len(pairs))
		return nil, NewServiceError("save_flashcards", "invalid flashcard set", err)
	}

	if err := s.store.Create(ctx, set); err != nil {
		log.Error("failed to save flashcard set", "error", err, "topic", set.Topic)
		return nil, NewServiceError("save_flashcards", "failed to store flashcard set", err)
	}

	log.Info("flashcard set saved",
		"set_id", set.ID.String(),
		"topic", set.Topic,
		"card_count", len(set.Cards))

	return set, nil
}

// List implements FlashcardService.List
func (s *flashcardServiceImpl) List(ctx context.Context) ([]domain.FlashcardSummary, error) {
	summaries, err := s.store.ListSummaries(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list flashcard sets", "error", err)
		return nil, NewServiceError("list_flashcards", "failed to list flashcard sets", err)
	}
	if summaries == nil {
		summaries = []domain.FlashcardSummary{}
	}
	return summaries, nil
}

// Get implements FlashcardService.Get
func (s *flashcardServiceImpl) Get(ctx context.Context, rawID string) (*domain.FlashcardSet, error) {
	id, err := store.ParseID(rawID)
	if err != nil {
		return nil, NewServiceError("get_flashcards", "invalid flashcard set id", err)
	}

	set, err := s.store.GetByID(ctx, id)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		if store.IsNotFoundError(err) {
			log.Debug("flashcard set not found", "set_id", id.String())
		} else {
			log.Error("failed to get flashcard set", "error", err, "set_id", id.String())
		}
		return nil, NewServiceError("get_flashcards", "failed to get flashcard set", err)
	}

	return set, nil
}

// Cards implements FlashcardService.Cards
func (s *flashcardServiceImpl) Cards(ctx context.Context, rawID string) ([]domain.FlashcardPair, error) {
	set, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return set.Cards, nil
}
