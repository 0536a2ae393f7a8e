package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chat-subscription/internal/config"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeAPI(t *testing.T, status int, body string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string) *Client {
	return NewClient(config.OpenAI{
		APIKey:  "test-key",
		BaseURL: url + "/v1",
	})
}

func TestClient_Complete(t *testing.T) {
	messages := []models.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello"},
	}

	t.Run("success", func(t *testing.T) {
		var got capturedRequest
		srv := newFakeAPI(t, http.StatusOK, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hi there"}, "finish_reason": "stop"}]
		}`, &got)

		content, err := newTestClient(srv.URL).Complete(context.Background(), messages)
		require.NoError(t, err)
		assert.Equal(t, "hi there", content)

		assert.Equal(t, "gpt-3.5-turbo", got.Model)
		assert.Equal(t, 1000, got.MaxTokens)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "be brief", got.Messages[0].Content)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Equal(t, "hello", got.Messages[1].Content)
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := newFakeAPI(t, http.StatusOK, `{"id": "chatcmpl-2", "choices": []}`, nil)

		_, err := newTestClient(srv.URL).Complete(context.Background(), messages)
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("api error", func(t *testing.T) {
		srv := newFakeAPI(t, http.StatusTooManyRequests,
			`{"error": {"message": "rate limited", "type": "requests"}}`, nil)

		_, err := newTestClient(srv.URL).Complete(context.Background(), messages)
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestClient(url).Complete(context.Background(), messages)
		assert.Error(t, err)
	})
}

func TestClient_Complete_ForwardsMessagesVerbatim(t *testing.T) {
	input := `[
		{"role":"system","content":"be brief"},
		{"role":"user","name":"alice","content":"hello"},
		{"role":"assistant","content":"hi alice"},
		{"role":"user","content":[{"type":"text","text":"what is here?"},{"type":"image_url","image_url":{"url":"https://example.com/cat.png","detail":"low"}}]}
	]`
	var messages []models.ChatMessage
	require.NoError(t, json.Unmarshal([]byte(input), &messages))

	var got struct {
		Model     string          `json:"model"`
		MaxTokens int             `json:"max_tokens"`
		Messages  json.RawMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "a cat"}}]}`))
	}))
	t.Cleanup(srv.Close)

	content, err := newTestClient(srv.URL).Complete(context.Background(), messages)
	require.NoError(t, err)
	assert.Equal(t, "a cat", content)

	assert.Equal(t, Model, got.Model)
	assert.Equal(t, MaxTokens, got.MaxTokens)
	assert.JSONEq(t, input, string(got.Messages))
}

func TestClient_FixedParameters(t *testing.T) {
	assert.Equal(t, "gpt-3.5-turbo", Model)
	assert.Equal(t, 1000, MaxTokens)
}
