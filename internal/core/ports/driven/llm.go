package driven

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// GenerateOptions tunes a single generation request. Zero values mean
// "use the backend default".
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// StreamFunc receives incremental content deltas during a streaming
// chat completion. Returning an error aborts the stream.
type StreamFunc func(delta string) error

// LLMClient talks to a local model runtime. The model is chosen per
// request so a single client serves every routing tier.
type LLMClient interface {
	// Generate produces a single completion for a prompt.
	Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error)

	// Chat produces a completion for a multi-turn conversation.
	Chat(ctx context.Context, model string, messages []domain.ChatMessage, opts GenerateOptions) (string, error)

	// ChatStream streams a chat completion, invoking fn for each
	// content delta as it arrives. The full response is returned
	// once the stream completes.
	ChatStream(ctx context.Context, model string, messages []domain.ChatMessage, opts GenerateOptions, fn StreamFunc) (string, error)

	// Embed returns the embedding vector for a text using the
	// given embedding model.
	Embed(ctx context.Context, model, text string) ([]float32, error)

	// ListModels reports the model names available on the runtime.
	ListModels(ctx context.Context) ([]string, error)

	// Ping reports whether the runtime is reachable.
	Ping(ctx context.Context) error
}
