package driving

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// IndexService manages the document index.
type IndexService interface {
	// Index ingests a file into the index. Unchanged files (same
	// content fingerprint) are skipped and the existing document
	// is returned.
	Index(ctx context.Context, path string, tags []string) (*domain.Document, error)

	// IndexText ingests raw text with explicit metadata. Text whose
	// content fingerprint is already indexed is skipped and the
	// existing document is returned.
	IndexText(ctx context.Context, input domain.TextInput) (*domain.Document, error)

	// Reindex re-ingests an already indexed document from its
	// source path.
	Reindex(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document and its chunks from the index.
	Delete(ctx context.Context, id string) error

	// List returns all indexed documents.
	List(ctx context.Context) ([]*domain.Document, error)

	// Search performs semantic retrieval over indexed chunks.
	Search(ctx context.Context, query string, topK int, filter domain.SearchFilter) ([]domain.SearchResult, error)

	// Summarize produces an LLM summary of one document.
	Summarize(ctx context.Context, id string) (string, error)
}
