package driven

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// DocumentStore persists document metadata. Deletes are soft: deleted
// documents stay on disk flagged Deleted and are excluded from List
// and lookups.
type DocumentStore interface {
	// Save upserts a document by ID.
	Save(ctx context.Context, doc *domain.Document) error

	// Get returns a document by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByPath returns the non-deleted document indexed from the
	// given file path, or domain.ErrNotFound.
	GetByPath(ctx context.Context, path string) (*domain.Document, error)

	// GetByFingerprint returns the non-deleted document with the
	// given content fingerprint, or domain.ErrNotFound.
	GetByFingerprint(ctx context.Context, fingerprint string) (*domain.Document, error)

	// List returns all non-deleted documents.
	List(ctx context.Context) ([]*domain.Document, error)

	// Delete soft-deletes a document by ID.
	Delete(ctx context.Context, id string) error
}
