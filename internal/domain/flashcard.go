package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FlashcardPair is one term/definition unit.
type FlashcardPair struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Validate checks that both sides of the pair are non-blank.
func (p FlashcardPair) Validate() error {
	if strings.TrimSpace(p.Term) == "" {
		return ErrTermEmpty
	}
	if strings.TrimSpace(p.Definition) == "" {
		return ErrDefinitionEmpty
	}
	return nil
}

// FlashcardSet is a topic plus an ordered list of flashcard pairs.
// ID and CreatedAt are zero until the set has been persisted by a store.
// Card order is presentation order and must survive storage round-trips.
type FlashcardSet struct {
	ID        uuid.UUID       `json:"id"`
	Topic     string          `json:"topic"`
	Cards     []FlashcardPair `json:"cards"`
	CreatedAt time.Time       `json:"created_at"`
}

// FlashcardSummary is the list projection of a stored set. It never carries cards.
type FlashcardSummary struct {
	ID    uuid.UUID `json:"id"`
	Topic string    `json:"topic"`
}

// NewFlashcardSet packages a topic and validated pairs into a set that is
// ready to be persisted. The topic is kept verbatim and the pairs are copied
// in order.
func NewFlashcardSet(topic string, pairs []FlashcardPair) (*FlashcardSet, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyResult
	}

	set := &FlashcardSet{
		Topic: topic,
		Cards: make([]FlashcardPair, len(pairs)),
	}
	copy(set.Cards, pairs)

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks the invariants every persisted set must satisfy.
func (s *FlashcardSet) Validate() error {
	if strings.TrimSpace(s.Topic) == "" {
		return ErrTopicEmpty
	}

	if len(s.Cards) == 0 {
		return ErrEmptyResult
	}

	for i, card := range s.Cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}

	return nil
}

// IsPersisted reports whether a store has assigned the set an identifier.
func (s *FlashcardSet) IsPersisted() bool {
	return s.ID != uuid.Nil
}

// Summary returns the list projection of the set.
func (s *FlashcardSet) Summary() FlashcardSummary {
	return FlashcardSummary{ID: s.ID, Topic: s.Topic}
}
