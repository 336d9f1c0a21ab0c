package driving

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// ChatOptions tunes one chat turn.
type ChatOptions struct {
	// ModelOverride forces a specific model instead of the
	// router's choice. Overrides feed preference learning.
	ModelOverride string

	// UseDocuments enables retrieval of indexed document context.
	UseDocuments bool

	// OnDelta, when set, receives streamed content deltas.
	OnDelta func(delta string) error
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Content   string
	Model     string
	Task      domain.TaskType
	Reason    string
	Documents []string
}

// ChatService runs routed, context-aware conversations.
type ChatService interface {
	// Chat processes one user turn in a session, routing it to a
	// model and assembling memory and document context.
	Chat(ctx context.Context, sessionID, message string, opts ChatOptions) (*ChatReply, error)

	// NewSession creates a session with the given title.
	NewSession(ctx context.Context, title string) (*domain.Session, error)

	// Sessions lists all sessions.
	Sessions(ctx context.Context) ([]*domain.Session, error)

	// History returns a session's messages, oldest first.
	History(ctx context.Context, sessionID string) ([]*domain.Message, error)
}
