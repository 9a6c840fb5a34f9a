package generation

import (
	"fmt"

	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/tiktoken-go/tokenizer"
)

// TokenBudget rejects prompts that would not fit the configured token budget.
// Counts use the cl100k_base encoding, which is close enough for every
// supported provider to serve as a guard.
type TokenBudget struct {
	codec tokenizer.Codec
	max   int
}

// NewTokenBudget creates a budget allowing at most max tokens per prompt.
func NewTokenBudget(max int) (*TokenBudget, error) {
	if max <= 0 {
		return nil, fmt.Errorf("%w: token budget must be positive", ErrUpstreamMisconfigured)
	}

	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	return &TokenBudget{codec: codec, max: max}, nil
}

// Count returns the number of tokens in text.
func (b *TokenBudget) Count(text string) (int, error) {
	ids, _, err := b.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	return len(ids), nil
}

// Check returns domain.ErrInvalidInput when the texts together exceed the budget.
func (b *TokenBudget) Check(texts ...string) error {
	total := 0
	for _, text := range texts {
		n, err := b.Count(text)
		if err != nil {
			return err
		}
		total += n
	}

	if total > b.max {
		return fmt.Errorf("%w: message is too long (%d tokens, limit %d)", domain.ErrInvalidInput, total, b.max)
	}
	return nil
}
