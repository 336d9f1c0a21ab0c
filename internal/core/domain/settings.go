package domain

// Default chunking and retrieval parameters.
const (
	// DefaultChunkSize is the default chunk window in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the default overlap between chunks.
	DefaultChunkOverlap = 200

	// DefaultTopK is the default number of retrieval results.
	DefaultTopK = 5

	// DefaultContextTokens is the default token budget for assembled context.
	DefaultContextTokens = 2000

	// DefaultMaxAgentIterations caps the agent loop.
	DefaultMaxAgentIterations = 5

	// DefaultHistoryWindow is the number of prior messages sent to the LLM.
	DefaultHistoryWindow = 20
)

// DefaultModels maps each tier to its default local model.
func DefaultModels() map[Tier]string {
	return map[Tier]string{
		TierFast:     "llama3.1:8b",
		TierBalanced: "mistral:7b",
		TierDocument: "qwen2.5:14b",
		TierQuality:  "llama3.1:70b-q4",
	}
}

// Settings holds runtime configuration resolved from the config store
// with defaults applied.
type Settings struct {
	// OllamaURL is the local inference endpoint base URL.
	OllamaURL string

	// EmbeddingModel is the model used for retrieval embeddings.
	EmbeddingModel string

	// Models maps tiers to concrete model identifiers.
	Models map[Tier]string

	// ChunkSize is the chunk window in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between chunks in characters.
	ChunkOverlap int

	// TopK is the number of retrieval results per query.
	TopK int

	// ContextTokens is the token budget for assembled context.
	ContextTokens int

	// WatchFolders are directories watched for automatic indexing.
	WatchFolders []string

	// AllowedReadDirs are the roots the read_file tool may access.
	AllowedReadDirs []string
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		OllamaURL:      "http://localhost:11434",
		EmbeddingModel: "nomic-embed-text",
		Models:         DefaultModels(),
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		TopK:           DefaultTopK,
		ContextTokens:  DefaultContextTokens,
	}
}

// ModelFor returns the model for a tier, falling back to the fast tier.
func (s Settings) ModelFor(tier Tier) string {
	if model, ok := s.Models[tier]; ok && model != "" {
		return model
	}
	return s.Models[TierFast]
}
