package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1:8b", req.Model)
		assert.Equal(t, "hello", req.Prompt)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "hi there", Done: true})
	})

	got, err := c.Generate(context.Background(), "llama3.1:8b", "hello", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)
}

func TestChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "answer"},
			Done:    true,
		})
	})

	got, err := c.Chat(context.Background(), "mistral:7b", []domain.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "question"},
	}, driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
}

func TestChatStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		enc := json.NewEncoder(w)
		_ = enc.Encode(chatResponse{Message: chatMessage{Content: "Hel"}})
		_ = enc.Encode(chatResponse{Message: chatMessage{Content: "lo"}})
		_ = enc.Encode(chatResponse{Done: true})
	})

	var deltas []string
	got, err := c.ChatStream(context.Background(), "llama3.1:8b", []domain.ChatMessage{
		{Role: "user", Content: "hi"},
	}, driven.GenerateOptions{}, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
}

func TestEmbed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		_ = json.NewEncoder(w).Encode(embeddingResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	})

	got, err := c.Embed(context.Background(), "nomic-embed-text", "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
}

func TestListModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.1:8b"}, {"name": "mistral:7b"}]}`))
	})

	got, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.1:8b", "mistral:7b"}, got)
}

func TestUnreachableServer(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := c.Generate(context.Background(), "llama3.1:8b", "hello", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	assert.ErrorIs(t, c.Ping(context.Background()), domain.ErrLLMUnavailable)
}
