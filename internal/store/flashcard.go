package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cardchat/internal/domain"
)

// FlashcardStore defines the interface for flashcard set persistence.
type FlashcardStore interface {
	// Create assigns a new ID and creation time to set and saves it.
	// The set is validated first; validation failures wrap ErrInvalidEntity.
	// On success set.ID and set.CreatedAt are populated.
	Create(ctx context.Context, set *domain.FlashcardSet) error

	// CreateAll saves every set atomically, populating IDs like Create.
	// Either all sets are saved or none are.
	CreateAll(ctx context.Context, sets []*domain.FlashcardSet) error

	// ListSummaries returns the ID and topic of every stored set in
	// insertion order. It returns an empty slice when the store is empty.
	ListSummaries(ctx context.Context) ([]domain.FlashcardSummary, error)

	// GetByID retrieves a complete flashcard set.
	// Returns ErrFlashcardSetNotFound if no set has the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error)

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases the resources held by the store.
	Close() error
}

// ParseID parses the textual form of a flashcard set ID.
// Malformed input returns domain.ErrInvalidID.
func ParseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: id is empty", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}

// PrepareForCreate validates set and assigns the identity fields a store
// implementation must populate before persisting it.
func PrepareForCreate(set *domain.FlashcardSet, newID func() uuid.UUID, now func() time.Time) error {
	if set == nil {
		return fmt.Errorf("%w: flashcard set is nil", ErrInvalidEntity)
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	set.ID = newID()
	set.CreatedAt = now().UTC()
	return nil
}
