package generation_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:        "gemini",
		APIKey:          "test-key",
		ModelName:       "test-model",
		MaxTokens:       300,
		MaxPromptTokens: 100,
		Timeout:         time.Second,
	}
}

func newClient(t *testing.T, provider generation.Provider) *generation.Client {
	t.Helper()

	client, err := generation.NewClient(provider, testLLMConfig(), nil)
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := generation.NewClient(nil, testLLMConfig(), nil)
	assert.Error(t, err)

	cfg := testLLMConfig()
	cfg.MaxTokens = 0
	_, err = generation.NewClient(&mocks.MockProvider{}, cfg, nil)
	assert.ErrorIs(t, err, generation.ErrUpstreamMisconfigured)

	cfg = testLLMConfig()
	cfg.Timeout = 0
	_, err = generation.NewClient(&mocks.MockProvider{}, cfg, nil)
	assert.ErrorIs(t, err, generation.ErrUpstreamMisconfigured)
}

func TestGenerateFlashcards(t *testing.T) {
	provider := mocks.NewMockProviderWithResponse(`[{"term":"a","definition":"b"}]`)
	client := newClient(t, provider)

	text, err := client.GenerateFlashcards(context.Background(), "  Cell Biology ")
	require.NoError(t, err)
	assert.Equal(t, `[{"term":"a","definition":"b"}]`, text)

	requests := provider.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, 300, req.MaxTokens)
	assert.Contains(t, req.System, "JSON array")
	require.Len(t, req.Messages, 1)
	assert.Equal(t, generation.RoleUser, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Text, "on the topic: Cell Biology\n")
}

func TestGenerateFlashcards_EmptyTopic(t *testing.T) {
	provider := &mocks.MockProvider{}
	client := newClient(t, provider)

	_, err := client.GenerateFlashcards(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrTopicEmpty)
	assert.Zero(t, provider.CallCount())
}

func TestGenerateFlashcards_TooLong(t *testing.T) {
	provider := &mocks.MockProvider{}
	client := newClient(t, provider)

	_, err := client.GenerateFlashcards(context.Background(), strings.Repeat("topic ", 500))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, provider.CallCount())
}

func TestAnswer_SendsHistory(t *testing.T) {
	provider := mocks.NewMockProviderWithResponse("A closure captures variables.")
	client := newClient(t, provider)

	history := []domain.ChatTurn{
		{Sender: domain.SenderUser, Text: "hi"},
		{Sender: domain.SenderAssistant, Text: "hello!"},
		{Sender: domain.SenderAssistant, Text: "  "},
	}

	text, err := client.Answer(context.Background(), history, "what is a closure?")
	require.NoError(t, err)
	assert.Equal(t, "A closure captures variables.", text)

	req := provider.Requests()[0]
	assert.False(t, req.JSON)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, generation.Message{Role: generation.RoleUser, Text: "hi"}, req.Messages[0])
	assert.Equal(t, generation.Message{Role: generation.RoleAssistant, Text: "hello!"}, req.Messages[1])
	assert.Equal(t, generation.Message{Role: generation.RoleUser, Text: "what is a closure?"}, req.Messages[2])
}

func TestAnswer_RendersSetTurns(t *testing.T) {
	provider := mocks.NewMockProviderWithResponse("Sure.")
	client := newClient(t, provider)

	history := []domain.ChatTurn{
		{Sender: domain.SenderUser, Text: "create flashcards on DOM"},
		{Sender: domain.SenderAssistant, Set: &domain.FlashcardSet{
			Topic: "DOM",
			Cards: []domain.FlashcardPair{
				{Term: "Node", Definition: "A point in the tree"},
				{Term: "Element", Definition: "A tagged node"},
			},
		}},
	}

	_, err := client.Answer(context.Background(), history, "explain the second card")
	require.NoError(t, err)

	req := provider.Requests()[0]
	require.Len(t, req.Messages, 3)
	assert.Equal(t, generation.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, "Flashcards on DOM:\n- Node: A point in the tree\n- Element: A tagged node", req.Messages[1].Text)
}

func TestAnswer_InvalidInput(t *testing.T) {
	provider := &mocks.MockProvider{}
	client := newClient(t, provider)

	_, err := client.Answer(context.Background(), nil, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = client.Answer(context.Background(), []domain.ChatTurn{{Sender: "bot", Text: "x"}}, "hi")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, provider.CallCount())
}

func TestComplete_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
		notErr  error
	}{
		{
			name:    "untyped error becomes unavailable",
			err:     errors.New("socket closed"),
			wantErr: generation.ErrUpstreamUnavailable,
		},
		{
			name:    "rejection passes through",
			err:     &generation.UpstreamError{Provider: "mock", StatusCode: 401, Message: "bad key"},
			wantErr: generation.ErrUpstreamRejected,
		},
		{
			name:    "unavailable passes through",
			err:     generation.ErrUpstreamUnavailable,
			wantErr: generation.ErrUpstreamUnavailable,
		},
		{
			name:    "malformed response passes through",
			err:     fmt.Errorf("%w: no candidates returned", generation.ErrMalformedResponse),
			wantErr: generation.ErrMalformedResponse,
			notErr:  generation.ErrUpstreamUnavailable,
		},
		{
			name:    "untyped error keeps its cause",
			err:     fmt.Errorf("read: %w", io.ErrUnexpectedEOF),
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, mocks.NewMockProviderWithError(tt.err))

			_, err := client.Answer(context.Background(), nil, "hi")
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.notErr != nil {
				assert.NotErrorIs(t, err, tt.notErr)
			}
		})
	}
}

func TestComplete_AppliesTimeout(t *testing.T) {
	provider := &mocks.MockProvider{
		CompleteFn: func(ctx context.Context, req generation.Request) (string, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			return "ok", nil
		},
	}
	client := newClient(t, provider)

	_, err := client.Answer(context.Background(), nil, "hi")
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.CallCount())
}
