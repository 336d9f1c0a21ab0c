package memory

import (
	"context"
	"sync"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure UsageLogStore implements the interface.
var _ driven.UsageLogStore = (*UsageLogStore)(nil)

// UsageLogStore is an in-memory implementation of driven.UsageLogStore.
// Records are kept in append order.
type UsageLogStore struct {
	mu      sync.RWMutex
	records []domain.ModelUsage
}

// NewUsageLogStore creates a new in-memory usage log.
func NewUsageLogStore() *UsageLogStore {
	return &UsageLogStore{}
}

// Append records one routing decision.
func (s *UsageLogStore) Append(_ context.Context, usage *domain.ModelUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *usage)
	return nil
}

// RecentOverrides returns up to limit override records for a task,
// newest first.
func (s *UsageLogStore) RecentOverrides(_ context.Context, task domain.TaskType, limit int) ([]*domain.ModelUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.ModelUsage
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.records[i]
		if r.Task == task && r.WasOverride {
			out = append(out, &r)
		}
	}
	return out, nil
}

// CountOverrides reports how many overrides exist for a task.
func (s *UsageLogStore) CountOverrides(_ context.Context, task domain.TaskType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.records {
		if r.Task == task && r.WasOverride {
			count++
		}
	}
	return count, nil
}

// SetFeedback records user feedback on a usage record.
func (s *UsageLogStore) SetFeedback(_ context.Context, id, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Feedback = feedback
			return nil
		}
	}
	return domain.ErrNotFound
}
