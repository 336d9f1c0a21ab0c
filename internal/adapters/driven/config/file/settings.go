package file

import (
	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// LoadSettings resolves runtime settings from a config store, applying
// defaults for anything the user has not set.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()

	if v := store.GetString("ollama.url"); v != "" {
		s.OllamaURL = v
	}
	if v := store.GetString("ollama.embedding_model"); v != "" {
		s.EmbeddingModel = v
	}

	for tier, key := range map[domain.Tier]string{
		domain.TierFast:     "models.fast",
		domain.TierBalanced: "models.balanced",
		domain.TierDocument: "models.document",
		domain.TierQuality:  "models.quality",
	} {
		if v := store.GetString(key); v != "" {
			s.Models[tier] = v
		}
	}

	if v := store.GetInt("index.chunk_size"); v > 0 {
		s.ChunkSize = v
	}
	if v := store.GetInt("index.chunk_overlap"); v > 0 {
		s.ChunkOverlap = v
	}
	if v := store.GetInt("search.top_k"); v > 0 {
		s.TopK = v
	}
	if v := store.GetInt("search.context_tokens"); v > 0 {
		s.ContextTokens = v
	}

	if v := store.GetStringSlice("watch.folders"); len(v) > 0 {
		s.WatchFolders = v
	}
	if v := store.GetStringSlice("agent.allowed_read_dirs"); len(v) > 0 {
		s.AllowedReadDirs = v
	}

	return s
}
