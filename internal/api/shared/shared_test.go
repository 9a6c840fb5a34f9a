package shared

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	ctxWithTrace := SetTraceID(ctx)

	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32, "Expected trace ID length to be 32 hex characters (16 bytes)")
	assert.Equal(t, traceID, logger.TraceIDFromContext(ctxWithTrace))
	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGenerateTraceID(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		_, err := hex.DecodeString(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "Expected all trace IDs to be unique")
		seen[id] = true
	}
}

func TestFallbackTraceIDUniqueness(t *testing.T) {
	const iterations = 100
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := generateFallbackTraceID()
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "Expected all fallback trace IDs to be unique")
		seen[id] = true
	}
}

type testRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		var body testRequest
		require.NoError(t, DecodeJSON(req, &body))
		assert.Equal(t, "x", body.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var body testRequest
		assert.ErrorIs(t, DecodeJSON(req, &body), ErrEmptyBody)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var body testRequest
		assert.Error(t, DecodeJSON(req, &body))
	})

	t.Run("trailing data", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"} {"name":"y"}`))
		var body testRequest
		assert.Error(t, DecodeJSON(req, &body))
	})
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&testRequest{Name: "x"}))
	assert.Error(t, ValidateRequest(&testRequest{Name: "  "}))
	assert.Error(t, ValidateRequest(&testRequest{}))
}

func TestRespondWithData(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithData(rec, req, http.StatusCreated, []string{})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestRespondWithContentAndFlashcards(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithContent(rec, req, "hello")
	assert.JSONEq(t, `{"success":true,"content":"hello"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondWithFlashcards(rec, req, []map[string]string{{"term": "a", "definition": "b"}})
	assert.JSONEq(t, `{"success":true,"flashcards":[{"term":"a","definition":"b"}]}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	ctx := SetTraceID(req.Context())
	ctx = logger.WithLogger(ctx, log)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	err := errors.New("dial postgres://app:s3cret@db:5432/cards: connection refused")
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Flashcard storage is unavailable", err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Flashcard storage is unavailable", body.Error)
	assert.Equal(t, GetTraceID(ctx), body.TraceID)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	logs := buf.String()
	assert.Contains(t, logs, "API error response")
	assert.Contains(t, logs, `"level":"ERROR"`)
	assert.NotContains(t, logs, "s3cret")
}

func TestRespondWithErrorAndLog_TraceIDLoggedOnce(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	req := httptest.NewRequest(http.MethodPost, "/api/flashcards", nil)
	ctx := SetTraceID(req.Context())
	ctx = logger.WithLogger(ctx, log.With("trace_id", GetTraceID(ctx)))
	req = req.WithContext(ctx)

	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusInternalServerError, "boom", errors.New("boom"))

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, 1, strings.Count(line, `"trace_id"`), line)
	assert.Contains(t, line, GetTraceID(ctx))
}

func TestRespondWithErrorAndLog_LogLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		opts   []ResponseOption
		level  string
	}{
		{name: "server error", status: http.StatusInternalServerError, level: "ERROR"},
		{name: "client error", status: http.StatusBadRequest, level: "DEBUG"},
		{name: "elevated client error", status: http.StatusBadRequest, opts: []ResponseOption{WithElevatedLogLevel()}, level: "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.GetTestLogger(t)
			req := httptest.NewRequest(http.MethodPost, "/api/flashcards", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))

			RespondWithErrorAndLog(httptest.NewRecorder(), req, tt.status, "bad", errors.New("bad"), tt.opts...)

			assert.Contains(t, buf.String(), `"level":"`+tt.level+`"`)
		})
	}
}
