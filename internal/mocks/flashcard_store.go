package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/store"
)

// MockFlashcardStore is an in-memory store.FlashcardStore.
// Setting one of the Err fields makes the matching operation fail.
type MockFlashcardStore struct {
	CreateErr error
	ListErr   error
	GetErr    error
	PingErr   error

	// Now overrides the creation clock when set.
	Now func() time.Time

	mu   sync.Mutex
	sets []*domain.FlashcardSet
}

// Ensure MockFlashcardStore implements store.FlashcardStore.
var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

// NewMockFlashcardStore creates an empty in-memory store.
func NewMockFlashcardStore() *MockFlashcardStore {
	return &MockFlashcardStore{}
}

func (m *MockFlashcardStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Create implements store.FlashcardStore.
func (m *MockFlashcardStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	return m.CreateAll(ctx, []*domain.FlashcardSet{set})
}

// CreateAll implements store.FlashcardStore.
func (m *MockFlashcardStore) CreateAll(ctx context.Context, sets []*domain.FlashcardSet) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}

	// Prepare every set before storing any so a bad set leaves the store untouched.
	for _, set := range sets {
		if err := store.PrepareForCreate(set, uuid.New, m.now); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, set := range sets {
		m.sets = append(m.sets, cloneSet(set))
	}
	return nil
}

// ListSummaries implements store.FlashcardStore.
func (m *MockFlashcardStore) ListSummaries(ctx context.Context) ([]domain.FlashcardSummary, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := make([]domain.FlashcardSummary, 0, len(m.sets))
	for _, set := range m.sets {
		summaries = append(summaries, set.Summary())
	}
	return summaries, nil
}

// GetByID implements store.FlashcardStore.
func (m *MockFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, set := range m.sets {
		if set.ID == id {
			return cloneSet(set), nil
		}
	}
	return nil, store.ErrFlashcardSetNotFound
}

// Ping implements store.FlashcardStore.
func (m *MockFlashcardStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Close implements store.FlashcardStore.
func (m *MockFlashcardStore) Close() error {
	return nil
}

// Len returns the number of stored sets.
func (m *MockFlashcardStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets)
}

func cloneSet(set *domain.FlashcardSet) *domain.FlashcardSet {
	clone := *set
	clone.Cards = make([]domain.FlashcardPair, len(set.Cards))
	copy(clone.Cards, set.Cards)
	return &clone
}
