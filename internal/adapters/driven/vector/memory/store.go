// Package memory provides an in-process vector store backed by
// brute-force cosine similarity. Suitable for personal corpora where
// an external vector database is not running.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Embedder is the slice of the LLM client this store needs.
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

type entry struct {
	id       string
	text     string
	metadata map[string]string
	vector   []float32
}

// Store is an in-memory implementation of driven.VectorStore.
type Store struct {
	embedder Embedder
	model    string

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a vector store that embeds with the given model.
func New(embedder Embedder, model string) *Store {
	return &Store{
		embedder: embedder,
		model:    model,
		entries:  make(map[string]entry),
	}
}

// Add upserts entries, embedding their text.
func (s *Store) Add(ctx context.Context, items []driven.VectorEntry) error {
	for _, item := range items {
		vec, err := s.embedder.Embed(ctx, s.model, item.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", item.ID, err)
		}
		s.mu.Lock()
		s.entries[item.ID] = entry{
			id:       item.ID,
			text:     item.Text,
			metadata: item.Metadata,
			vector:   vec,
		}
		s.mu.Unlock()
	}
	return nil
}

// Query embeds the text and returns the k nearest entries by cosine
// distance.
func (s *Store) Query(ctx context.Context, text string, k int, where driven.Where) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive: %w", domain.ErrInvalidInput)
	}

	queryVec, err := s.embedder.Embed(ctx, s.model, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(s.entries))
	for _, e := range s.entries {
		if !matches(e.metadata, where) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ID:       e.id,
			Text:     e.text,
			Metadata: e.metadata,
			Distance: 1 - cosineSimilarity(queryVec, e.vector),
		})
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteWhere removes all entries whose metadata matches where.
func (s *Store) DeleteWhere(_ context.Context, where driven.Where) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if matches(e.metadata, where) {
			delete(s.entries, id)
		}
	}
	return nil
}

// Count reports the number of indexed entries.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func matches(meta map[string]string, where driven.Where) bool {
	for k, accepted := range where {
		ok := false
		for _, v := range accepted {
			if meta[k] == v {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// cosineSimilarity is zero for mismatched or zero-length vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
