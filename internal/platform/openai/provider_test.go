package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewProvider(config.LLMConfig{
		APIKey:    "test-key",
		ModelName: "gpt-test",
		BaseURL:   server.URL + "/v1/",
	}, nil)
	require.NoError(t, err)
	return p
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewProvider_Misconfigured(t *testing.T) {
	_, err := NewProvider(config.LLMConfig{ModelName: "gpt-test"}, nil)
	assert.ErrorIs(t, err, generation.ErrUpstreamMisconfigured)

	_, err = NewProvider(config.LLMConfig{APIKey: "k", ModelName: " "}, nil)
	assert.ErrorIs(t, err, generation.ErrUpstreamMisconfigured)
}

func TestComplete_Success(t *testing.T) {
	var captured capturedRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		writeJSON(w, http.StatusOK, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Closures capture variables."}, "finish_reason": "stop"}]
		}`)
	})

	text, err := p.Complete(context.Background(), generation.Request{
		System: "you are a tutor",
		Messages: []generation.Message{
			{Role: generation.RoleUser, Text: "hi"},
			{Role: generation.RoleAssistant, Text: "hello"},
			{Role: generation.RoleUser, Text: "what is a closure?"},
		},
		MaxTokens: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, "Closures capture variables.", text)

	assert.Equal(t, "gpt-test", captured.Model)
	assert.Equal(t, 300, captured.MaxTokens)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "you are a tutor", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "what is a closure?", captured.Messages[3].Content)
}

func TestComplete_Rejected(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized,
			`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
	})

	_, err := p.Complete(context.Background(), generation.Request{
		Messages: []generation.Message{{Role: generation.RoleUser, Text: "hi"}},
	})

	assert.ErrorIs(t, err, generation.ErrUpstreamRejected)

	var upstream *generation.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Equal(t, "Incorrect API key provided", upstream.Message)
}

func TestComplete_ContentFilter(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "content_filter"}]
		}`)
	})

	_, err := p.Complete(context.Background(), generation.Request{
		Messages: []generation.Message{{Role: generation.RoleUser, Text: "hi"}},
	})

	assert.ErrorIs(t, err, generation.ErrUpstreamRejected)
}

func TestComplete_NoChoices(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"choices": []}`)
	})

	_, err := p.Complete(context.Background(), generation.Request{
		Messages: []generation.Message{{Role: generation.RoleUser, Text: "hi"}},
	})

	assert.ErrorIs(t, err, generation.ErrMalformedResponse)
}

func TestComplete_Timeout(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, generation.Request{
		Messages: []generation.Message{{Role: generation.RoleUser, Text: "hi"}},
	})

	assert.ErrorIs(t, err, generation.ErrUpstreamUnavailable)
}
