package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"archai-workers/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroq(url string) *GroqClient {
	return NewGroqClient(config.ReasoningConfig{
		BaseURL:     url + "/",
		APIKey:      "gsk-test",
		Model:       "llama-test",
		MaxRetries:  1,
		Temperature: 0.1,
		MaxTokens:   2000,
	})
}

func TestGroqClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-test", req.Model)
		assert.Equal(t, 2000, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, DefaultSystemPrompt, req.Messages[0].Content)
		assert.Equal(t, "describe", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer server.Close()

	out, err := newTestGroq(server.URL).Complete(context.Background(), "", "describe")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestGroqClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestGroq(server.URL).Complete(context.Background(), "sys", "p")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestGroqClient_Unauthorized(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestGroq(server.URL).Complete(context.Background(), "sys", "p")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestGroqClient_RetriesServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"done"}}]}`))
	}))
	defer server.Close()

	out, err := newTestGroq(server.URL).Complete(context.Background(), "sys", "p")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 2, calls)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(context.Background(), config.ReasoningConfig{Provider: "openai"})
	assert.Error(t, err)

	c, err := New(context.Background(), config.ReasoningConfig{Provider: "groq", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "groq:m", c.Name())
}
