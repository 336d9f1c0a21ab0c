package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// fakeLLM is a scripted LLM client. Responses are consumed in order
// across Generate, Chat and ChatStream; every call is recorded.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error

	prompts  []string
	chats    [][]domain.ChatMessage
	models   []string
	streamed int
}

var _ driven.LLMClient = (*fakeLLM)(nil)

func (f *fakeLLM) next() string {
	if len(f.responses) == 0 {
		return ""
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r
}

func (f *fakeLLM) Generate(_ context.Context, model, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.models = append(f.models, model)
	f.prompts = append(f.prompts, prompt)
	return f.next(), nil
}

func (f *fakeLLM) Chat(_ context.Context, model string, messages []domain.ChatMessage, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.models = append(f.models, model)
	f.chats = append(f.chats, messages)
	return f.next(), nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, model string, messages []domain.ChatMessage, opts driven.GenerateOptions, fn driven.StreamFunc) (string, error) {
	f.mu.Lock()
	f.streamed++
	f.mu.Unlock()
	response, err := f.Chat(ctx, model, messages, opts)
	if err != nil {
		return "", err
	}
	if fn != nil && response != "" {
		if err := fn(response); err != nil {
			return "", err
		}
	}
	return response, nil
}

func (f *fakeLLM) Embed(_ context.Context, _, text string) ([]float32, error) {
	return bagEmbed(text), nil
}

func (f *fakeLLM) ListModels(_ context.Context) ([]string, error) {
	return []string{"llama3.1:8b"}, nil
}

func (f *fakeLLM) Ping(_ context.Context) error {
	return nil
}

// lastChat returns the messages of the most recent chat call.
func (f *fakeLLM) lastChat() []domain.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.chats) == 0 {
		return nil
	}
	return f.chats[len(f.chats)-1]
}

// bagEmbed hashes words into a fixed-width bag-of-words vector, giving
// texts that share vocabulary a higher cosine similarity.
func bagEmbed(text string) []float32 {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec
}
