package driven

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// MemoryStore persists long-lived facts extracted from conversations.
type MemoryStore interface {
	Save(ctx context.Context, mem *domain.Memory) error
	Get(ctx context.Context, id string) (*domain.Memory, error)
	List(ctx context.Context) ([]*domain.Memory, error)
	// ListByType returns non-deleted memories of one type.
	ListByType(ctx context.Context, typ domain.MemoryType) ([]*domain.Memory, error)
	// Search returns non-deleted memories whose content contains
	// the query, case-insensitively.
	Search(ctx context.Context, query string) ([]*domain.Memory, error)
	Delete(ctx context.Context, id string) error
}

// SessionStore persists chat sessions.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context) ([]*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// MessageStore persists messages within sessions.
type MessageStore interface {
	Save(ctx context.Context, msg *domain.Message) error
	// ListBySession returns a session's messages oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Message, error)
	// Recent returns up to limit of a session's most recent
	// messages, oldest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]*domain.Message, error)
}
