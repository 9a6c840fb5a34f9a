// Package openai provides a generation.Provider backed by the OpenAI chat
// completions API or any server that speaks the same protocol.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	oai "github.com/sashabaranov/go-openai"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/generation"
)

// ProviderName identifies this provider in logs and errors.
const ProviderName = "openai"

// Provider implements generation.Provider using go-openai.
type Provider struct {
	client *oai.Client
	model  string
	logger *slog.Logger
}

// Ensure Provider implements generation.Provider.
var _ generation.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI provider from the LLM configuration.
// A missing API key or model name returns generation.ErrUpstreamMisconfigured.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrUpstreamMisconfigured)
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrUpstreamMisconfigured)
	}

	clientConfig := oai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Provider{
		client: oai.NewClientWithConfig(clientConfig),
		model:  cfg.ModelName,
		logger: logger.With(slog.String("component", "openai_provider")),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Complete implements generation.Provider. The JSON hint is carried by the
// system instruction only: the API's JSON mode forces a top-level object and
// flashcards are requested as a bare array.
func (p *Provider) Complete(ctx context.Context, req generation.Request) (string, error) {
	messages := make([]oai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, oai.ChatCompletionMessage{
			Role:    oai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		role := oai.ChatMessageRoleUser
		if msg.Role == generation.RoleAssistant {
			role = oai.ChatMessageRoleAssistant
		}
		messages = append(messages, oai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Text,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		p.logger.DebugContext(ctx, "openai call failed", "model", p.model, "error", err)
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrMalformedResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == oai.FinishReasonContentFilter {
		return "", &generation.UpstreamError{
			Provider: ProviderName,
			Status:   string(choice.FinishReason),
			Message:  "content blocked by content filter",
		}
	}

	return choice.Message.Content, nil
}

// classifyError maps a go-openai error onto the upstream taxonomy.
func classifyError(err error) error {
	var apiErr *oai.APIError
	if errors.As(err, &apiErr) {
		return &generation.UpstreamError{
			Provider:   ProviderName,
			StatusCode: apiErr.HTTPStatusCode,
			Status:     apiErr.Type,
			Message:    apiErr.Message,
		}
	}

	var reqErr *oai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &generation.UpstreamError{
			Provider:   ProviderName,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    msg,
		}
	}

	return fmt.Errorf("%w: %v", generation.ErrUpstreamUnavailable, err)
}
