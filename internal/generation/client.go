package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/domain"
)

// Client is the completion client used by the chat service. It builds the
// outbound requests for flashcard generation and plain answers, enforces the
// prompt budget and the per-call timeout, and makes a single attempt per call.
type Client struct {
	provider  Provider
	budget    *TokenBudget
	tmpl      *template.Template
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewClient creates a Client that sends requests through provider.
func NewClient(provider Provider, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if provider == nil {
		return nil, errors.New("provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive", ErrUpstreamMisconfigured)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrUpstreamMisconfigured)
	}

	budget, err := NewTokenBudget(cfg.MaxPromptTokens)
	if err != nil {
		return nil, err
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider:  provider,
		budget:    budget,
		tmpl:      tmpl,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.With(slog.String("component", "completion_client")),
	}, nil
}

// GenerateFlashcards asks the provider for a bare JSON array of
// term/definition objects about topic and returns the raw text.
func (c *Client) GenerateFlashcards(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", domain.ErrTopicEmpty
	}
	if err := c.budget.Check(topic); err != nil {
		return "", err
	}

	prompt, err := renderFlashcardPrompt(c.tmpl, topic)
	if err != nil {
		return "", err
	}

	req := Request{
		System:    flashcardInstruction,
		Messages:  []Message{{Role: RoleUser, Text: prompt}},
		MaxTokens: c.maxTokens,
		JSON:      true,
	}

	return c.complete(ctx, "flashcards", req)
}

// Answer returns the provider's reply to utterance, given the earlier turns
// of the conversation.
func (c *Client) Answer(ctx context.Context, history []domain.ChatTurn, utterance string) (string, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return "", fmt.Errorf("%w: message cannot be empty", domain.ErrInvalidInput)
	}

	texts := make([]string, 0, len(history)+1)
	messages := make([]Message, 0, len(history)+1)
	for _, turn := range history {
		if err := turn.Validate(); err != nil {
			return "", err
		}
		text := turnText(turn)
		if strings.TrimSpace(text) == "" {
			continue
		}
		role := RoleUser
		if turn.Sender == domain.SenderAssistant {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Text: text})
		texts = append(texts, text)
	}
	messages = append(messages, Message{Role: RoleUser, Text: utterance})
	texts = append(texts, utterance)

	if err := c.budget.Check(texts...); err != nil {
		return "", err
	}

	req := Request{
		System:    tutorInstruction,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	}

	return c.complete(ctx, "answer", req)
}

// turnText renders a chat turn for the provider. A flashcard set turn
// becomes a short listing of its cards.
func turnText(turn domain.ChatTurn) string {
	if turn.Set == nil {
		return turn.Text
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Flashcards on %s:", turn.Set.Topic)
	for _, card := range turn.Set.Cards {
		fmt.Fprintf(&b, "\n- %s: %s", card.Term, card.Definition)
	}
	return b.String()
}

// complete makes the single outbound call under the client timeout and makes
// sure every failure carries one of the upstream sentinels.
func (c *Client) complete(ctx context.Context, kind string, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	c.logger.DebugContext(ctx, "sending completion request",
		"kind", kind,
		"provider", c.provider.Name(),
		"messages", len(req.Messages),
		"max_tokens", req.MaxTokens)

	text, err := c.provider.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		if !errors.Is(err, ErrUpstreamUnavailable) &&
			!errors.Is(err, ErrUpstreamRejected) &&
			!errors.Is(err, ErrMalformedResponse) {
			err = fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		c.logger.WarnContext(ctx, "completion request failed",
			"kind", kind,
			"provider", c.provider.Name(),
			"duration_ms", elapsed.Milliseconds(),
			"error", err)
		return "", err
	}

	c.logger.InfoContext(ctx, "completion request succeeded",
		"kind", kind,
		"provider", c.provider.Name(),
		"duration_ms", elapsed.Milliseconds(),
		"response_length", len(text))

	return text, nil
}
