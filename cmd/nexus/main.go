// Command nexus is a local-first personal assistant: document indexing
// and semantic search, model routing with preference learning, and a
// tool-using agent, all against local models.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	configfile "github.com/aurelia-labs/nexus-cli/internal/adapters/driven/config/file"
	"github.com/aurelia-labs/nexus-cli/internal/adapters/driven/llm/ollama"
	"github.com/aurelia-labs/nexus-cli/internal/adapters/driven/storage/sqlite"
	"github.com/aurelia-labs/nexus-cli/internal/adapters/driven/vector/chroma"
	vecmemory "github.com/aurelia-labs/nexus-cli/internal/adapters/driven/vector/memory"
	"github.com/aurelia-labs/nexus-cli/internal/adapters/driving/cli"
	"github.com/aurelia-labs/nexus-cli/internal/chunker"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/services"
	"github.com/aurelia-labs/nexus-cli/internal/extractors"
	"github.com/aurelia-labs/nexus-cli/internal/extractors/code"
	"github.com/aurelia-labs/nexus-cli/internal/extractors/data"
	"github.com/aurelia-labs/nexus-cli/internal/extractors/html"
	"github.com/aurelia-labs/nexus-cli/internal/extractors/markdown"
	"github.com/aurelia-labs/nexus-cli/internal/extractors/plaintext"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
	"github.com/aurelia-labs/nexus-cli/internal/tools"
	"github.com/aurelia-labs/nexus-cli/internal/watcher"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development overrides.
	_ = godotenv.Load()

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings := configfile.LoadSettings(cfg)

	llm := ollama.New(ollama.Config{BaseURL: settings.OllamaURL})

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	var vectors driven.VectorStore
	if chromaURL := cfg.GetString("vector.chroma_url"); chromaURL != "" {
		vectors = chroma.New(chromaURL, llm, settings.EmbeddingModel)
		logger.Debug("Using Chroma vector store at %s", chromaURL)
	} else {
		vectors = vecmemory.New(llm, settings.EmbeddingModel)
	}

	registry := extractors.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		code.New(),
		data.New(),
	)
	ch := chunker.New(
		chunker.WithSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)

	classifier := services.NewClassifierService()
	router := services.NewRouterService(classifier, store.UsageLogStore(), settings)
	if err := router.LoadPreferences(context.Background()); err != nil {
		logger.Warn("Could not load model preferences: %v", err)
	}

	indexer := services.NewIndexerService(store.DocumentStore(), vectors, registry, ch, llm, settings)
	memory := services.NewMemoryService(store.MemoryStore())
	assembler := services.NewAssemblerService(settings.ContextTokens)
	chat := services.NewChatService(router, indexer, memory, assembler, llm,
		store.SessionStore(), store.MessageStore(), settings)

	readRoots := settings.AllowedReadDirs
	if len(readRoots) == 0 {
		if home, err := os.UserHomeDir(); err == nil {
			readRoots = []string{home}
		}
	}
	toolRegistry := tools.NewRegistry(
		tools.NewCalculator(),
		tools.NewDateTime(),
		tools.NewReadFile(readRoots),
		tools.NewWebSearch(),
	)
	agent := services.NewAgentService(toolRegistry, llm, settings)

	svcs := cli.Services{
		Index:  indexer,
		Chat:   chat,
		Agent:  agent,
		Memory: memory,
		Router: router,
	}
	if len(settings.WatchFolders) > 0 {
		svcs.Watch = watcher.New(indexer, store.DocumentStore(), registry, settings.WatchFolders)
	}

	cli.SetServices(svcs)
	cli.SetVersion(version)
	return cli.Execute()
}
