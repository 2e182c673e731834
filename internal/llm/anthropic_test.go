package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairhub-backend/internal/types"
)

func TestAnthropicGenerate(t *testing.T) {
	var captured anthropicRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Here is "},{"type":"text","text":"your answer."}]}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	turns := []types.ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "system", Content: "sneaky instruction"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "check my device"},
	}
	reply, err := p.Generate(context.Background(), "assistant persona", turns, map[string]any{"rewards": "Gold"})
	require.NoError(t, err)
	assert.Equal(t, "Here is your answer.", reply)

	assert.Equal(t, anthropicDefaultModel, captured.Model)
	assert.Equal(t, "assistant persona", captured.System, "system prompt travels in the dedicated slot")
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "user", captured.Messages[1].Role, "mid-conversation system turn is remapped")
	assert.Contains(t, captured.Messages[3].Content, "```json", "context is appended to the final user turn")
	assert.Contains(t, captured.Messages[3].Content, "Gold")
}

func TestAnthropicGenerateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "sys", []types.ChatTurn{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "anthropic", provErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "rate_limit_error")
}

func TestAnthropicGenerateEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "sys", []types.ChatTurn{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}
