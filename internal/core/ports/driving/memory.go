package driving

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// MemoryService manages long-lived facts about the user.
type MemoryService interface {
	// Extract scans a conversation turn for facts and preferences
	// worth remembering, persisting any it finds.
	Extract(ctx context.Context, sessionID, userMessage string) ([]*domain.Memory, error)

	// Remember stores an explicit memory.
	Remember(ctx context.Context, content string, typ domain.MemoryType, category string) (*domain.Memory, error)

	// List returns all stored memories.
	List(ctx context.Context) ([]*domain.Memory, error)

	// Forget deletes a memory by ID.
	Forget(ctx context.Context, id string) error

	// RelevantContext returns a prompt-ready block of memories
	// relevant to a message, or empty when there are none.
	RelevantContext(ctx context.Context, message string) (string, error)
}
