package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/ai-readiness/internal/domain/ai"
)

func TestClient_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"score\": 7}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "", srv.URL, 5*time.Second)
	assert.Equal(t, "openai/"+defaultModel, c.Name())

	text, err := c.Complete(context.Background(), ai.Request{System: "sys", Prompt: "rate", Temperature: 0.3, MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 7}`, text)
	assert.Equal(t, defaultModel, got["model"])
	assert.EqualValues(t, 200, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestClient_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"6"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "o3-mini", srv.URL, 0)
	_, err := c.Complete(context.Background(), ai.Request{Prompt: "rate"})
	require.NoError(t, err)
	assert.EqualValues(t, maxTokens, got["max_completion_tokens"])
	assert.NotContains(t, got, "max_tokens")
}

func TestClient_Errors(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o", srv.URL, 0)
	_, err := c.Complete(context.Background(), ai.Request{Prompt: "rate"})
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)

	status = http.StatusInternalServerError
	_, err = c.Complete(context.Background(), ai.Request{Prompt: "rate"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
}
