package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sender identifies who produced a chat turn.
type Sender string

// Valid senders.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// ChatTurn is one message of a conversation. Its payload is either plain
// Text or a flashcard Set shown earlier in the conversation, never both.
// Turns live only as long as the request that carries them; they are never
// persisted.
type ChatTurn struct {
	Sender Sender        `json:"sender"`
	Text   string        `json:"text,omitempty"`
	Set    *FlashcardSet `json:"set,omitempty"`
}

// Validate checks the sender and the payload of the turn.
func (t ChatTurn) Validate() error {
	if !t.Sender.Valid() {
		return fmt.Errorf("%w: unknown sender %q", ErrInvalidInput, t.Sender)
	}
	if t.Set == nil {
		return nil
	}
	if strings.TrimSpace(t.Text) != "" {
		return fmt.Errorf("%w: turn carries both text and a flashcard set", ErrInvalidInput)
	}

	err := t.Set.Validate()
	if errors.Is(err, ErrEmptyResult) {
		return fmt.Errorf("%w: flashcard set turn has no cards", ErrInvalidInput)
	}
	return err
}
