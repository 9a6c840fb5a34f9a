package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/generation"
	"google.golang.org/genai"
)

// ProviderName identifies this provider in logs and errors.
const ProviderName = "gemini"

// genai speaks of the assistant as the "model".
const (
	roleUser  = "user"
	roleModel = "model"
)

// Provider implements generation.Provider using the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Ensure Provider implements generation.Provider.
var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini provider from the LLM configuration.
// A missing API key or model name returns generation.ErrUpstreamMisconfigured.
func NewProvider(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrUpstreamMisconfigured)
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrUpstreamMisconfigured)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrUpstreamMisconfigured, err)
	}

	return &Provider{
		client: client,
		model:  cfg.ModelName,
		logger: logger.With(slog.String("component", "gemini_provider")),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Complete implements generation.Provider.
func (p *Provider) Complete(ctx context.Context, req generation.Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := roleUser
		if msg.Role == generation.RoleAssistant {
			role = roleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}

	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, genConfig)
	if err != nil {
		p.logger.DebugContext(ctx, "gemini call failed", "model", p.model, "error", err)
		return "", classifyError(err)
	}

	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrMalformedResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &generation.UpstreamError{
			Provider: ProviderName,
			Status:   string(resp.PromptFeedback.BlockReason),
			Message:  "prompt blocked",
		}
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", &generation.UpstreamError{
			Provider: ProviderName,
			Status:   string(candidate.FinishReason),
			Message:  "content blocked by safety filters",
		}
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrMalformedResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// classifyError maps a genai client error onto the upstream taxonomy.
// API errors carry an HTTP status and are rejections; everything else is a
// transport failure.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return rejection(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return rejection(*apiErrPtr)
	}
	return fmt.Errorf("%w: %v", generation.ErrUpstreamUnavailable, err)
}

func rejection(apiErr genai.APIError) error {
	return &generation.UpstreamError{
		Provider:   ProviderName,
		StatusCode: apiErr.Code,
		Status:     apiErr.Status,
		Message:    apiErr.Message,
	}
}
