package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure MemoryStore implements the interface.
var _ driven.MemoryStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of driven.MemoryStore.
type MemoryStore struct {
	mu       sync.RWMutex
	memories map[string]domain.Memory
	order    []string
}

// NewMemoryStore creates a new in-memory memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{memories: make(map[string]domain.Memory)}
}

// Save stores or updates a memory.
func (s *MemoryStore) Save(_ context.Context, mem *domain.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memories[mem.ID]; !ok {
		s.order = append(s.order, mem.ID)
	}
	s.memories[mem.ID] = *mem
	return nil
}

// Get retrieves a memory by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mem, ok := s.memories[id]
	if !ok || mem.Deleted {
		return nil, domain.ErrNotFound
	}
	return &mem, nil
}

// List returns all non-deleted memories in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]*domain.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Memory
	for _, id := range s.order {
		mem := s.memories[id]
		if mem.Deleted {
			continue
		}
		m := mem
		out = append(out, &m)
	}
	return out, nil
}

// ListByType returns non-deleted memories of one type.
func (s *MemoryStore) ListByType(ctx context.Context, typ domain.MemoryType) ([]*domain.Memory, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Memory
	for _, m := range all {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out, nil
}

// Search returns non-deleted memories whose content contains the
// query, case-insensitively.
func (s *MemoryStore) Search(ctx context.Context, query string) ([]*domain.Memory, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var out []*domain.Memory
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Content), needle) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Delete soft-deletes a memory.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mem, ok := s.memories[id]
	if !ok || mem.Deleted {
		return domain.ErrNotFound
	}
	mem.Deleted = true
	s.memories[id] = mem
	return nil
}
