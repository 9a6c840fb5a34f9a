package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/phrazzld/cardchat/internal/api/shared"
	"github.com/phrazzld/cardchat/internal/domain"
)

// Request and response structures

// ChatTurnRequest is one earlier turn of the conversation re-submitted by the
// client. Its payload is either plain Text or a flashcard Set; a set may also
// arrive as the object value of "text", the shape earlier clients kept in
// their history.
type ChatTurnRequest struct {
	Sender string          `json:"sender" validate:"required,oneof=user assistant"`
	Text   string          `json:"text"   validate:"max=10000,excluded_with=Set"`
	Set    *TurnSetRequest `json:"set"`
}

// TurnSetRequest is a flashcard set shown in an earlier turn.
// Flashcards is the legacy name of Cards and is only read when Cards is empty.
type TurnSetRequest struct {
	Topic      string        `json:"topic"      validate:"required,notblank,max=200"`
	Cards      []CardRequest `json:"cards"      validate:"omitempty,max=100,dive"`
	Flashcards []CardRequest `json:"flashcards" validate:"omitempty,max=100,dive"`
}

// UnmarshalJSON accepts "text" as either a string or a flashcard set object.
func (t *ChatTurnRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sender string          `json:"sender"`
		Text   json.RawMessage `json:"text"`
		Set    *TurnSetRequest `json:"set"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = ChatTurnRequest{Sender: raw.Sender, Set: raw.Set}

	text := bytes.TrimSpace(raw.Text)
	switch {
	case len(text) == 0, bytes.Equal(text, []byte("null")):
		return nil
	case text[0] == '"':
		return json.Unmarshal(text, &t.Text)
	case text[0] == '{':
		if t.Set != nil {
			return errors.New("chat turn carries two flashcard sets")
		}
		var set TurnSetRequest
		if err := json.Unmarshal(text, &set); err != nil {
			return err
		}
		t.Set = &set
		return nil
	default:
		return errors.New("chat turn text must be a string or a flashcard set")
	}
}

// ChatRequest defines the payload for the chat endpoint. A blank prompt is
// answered by the chat service with a request for input.
type ChatRequest struct {
	Prompt  string            `json:"prompt"  validate:"max=10000"`
	History []ChatTurnRequest `json:"history" validate:"omitempty,max=100,dive"`
}

// Turns converts the re-submitted history into domain chat turns.
func (r ChatRequest) Turns() []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(r.History))
	for _, turn := range r.History {
		chatTurn := domain.ChatTurn{Sender: domain.Sender(turn.Sender), Text: turn.Text}
		if turn.Set != nil {
			chatTurn.Set = &domain.FlashcardSet{
				Topic: turn.Set.Topic,
				Cards: requestPairs(turn.Set.Cards, turn.Set.Flashcards),
			}
		}
		turns = append(turns, chatTurn)
	}
	return turns
}

// CardRequest is one term/definition pair in a save request.
type CardRequest struct {
	Term       string `json:"term"       validate:"required,notblank"`
	Definition string `json:"definition" validate:"required,notblank"`
}

// SaveFlashcardsRequest defines the payload for saving a flashcard set.
// Flashcards is the legacy name of Cards and is only read when Cards is empty.
type SaveFlashcardsRequest struct {
	Topic      string        `json:"topic"      validate:"required,notblank,max=200"`
	Cards      []CardRequest `json:"cards"      validate:"omitempty,dive"`
	Flashcards []CardRequest `json:"flashcards" validate:"omitempty,dive"`
}

// Validate runs the struct validator; an empty card list is left to the
// service, which rejects it as an empty result.
func (r *SaveFlashcardsRequest) Validate() error {
	return shared.ValidateStruct(r)
}

// Pairs returns the submitted cards as domain pairs, in order.
func (r *SaveFlashcardsRequest) Pairs() []domain.FlashcardPair {
	return requestPairs(r.Cards, r.Flashcards)
}

// requestPairs converts cards, or legacy when cards is empty, into domain pairs.
func requestPairs(cards, legacy []CardRequest) []domain.FlashcardPair {
	if len(cards) == 0 {
		cards = legacy
	}

	pairs := make([]domain.FlashcardPair, 0, len(cards))
	for _, card := range cards {
		pairs = append(pairs, domain.FlashcardPair{Term: card.Term, Definition: card.Definition})
	}
	return pairs
}

// CardResponse is one term/definition pair.
type CardResponse struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// FlashcardSetResponse represents a flashcard set. ID and CreatedAt are
// omitted for sets that have been generated but not saved.
type FlashcardSetResponse struct {
	ID        string         `json:"id,omitempty"`
	Topic     string         `json:"topic"`
	Cards     []CardResponse `json:"cards"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
}

// FlashcardSummaryResponse is the list projection of a stored set.
type FlashcardSummaryResponse struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
}

func cardsToResponse(pairs []domain.FlashcardPair) []CardResponse {
	cards := make([]CardResponse, 0, len(pairs))
	for _, pair := range pairs {
		cards = append(cards, CardResponse{Term: pair.Term, Definition: pair.Definition})
	}
	return cards
}

func setToResponse(set *domain.FlashcardSet) FlashcardSetResponse {
	resp := FlashcardSetResponse{
		Topic: set.Topic,
		Cards: cardsToResponse(set.Cards),
	}
	if set.IsPersisted() {
		createdAt := set.CreatedAt
		resp.ID = set.ID.String()
		resp.CreatedAt = &createdAt
	}
	return resp
}

func summariesToResponse(summaries []domain.FlashcardSummary) []FlashcardSummaryResponse {
	resp := make([]FlashcardSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp = append(resp, FlashcardSummaryResponse{ID: summary.ID.String(), Topic: summary.Topic})
	}
	return resp
}
