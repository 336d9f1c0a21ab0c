// Package memory provides in-memory implementations of the storage
// ports. Used for tests and for running without a persistent database.
package memory

import (
	"context"
	"sync"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]domain.Document)}
}

// Save stores or updates a document.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok || doc.Deleted {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetByPath retrieves the non-deleted document indexed from a path.
func (s *DocumentStore) GetByPath(_ context.Context, path string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if !doc.Deleted && doc.FilePath == path {
			d := doc
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByFingerprint retrieves the non-deleted document with a content
// fingerprint.
func (s *DocumentStore) GetByFingerprint(_ context.Context, fingerprint string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if !doc.Deleted && doc.Fingerprint == fingerprint {
			d := doc
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all non-deleted documents.
func (s *DocumentStore) List(_ context.Context) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		if doc.Deleted {
			continue
		}
		d := doc
		docs = append(docs, &d)
	}
	return docs, nil
}

// Delete soft-deletes a document.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok || doc.Deleted {
		return domain.ErrNotFound
	}
	doc.Deleted = true
	s.documents[id] = doc
	return nil
}
