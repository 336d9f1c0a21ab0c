package domain

import "time"

// Session is a persisted conversation.
type Session struct {
	// ID is the unique identifier for the session.
	ID string

	// Title is the display title. Defaults to the first user message,
	// truncated to 50 characters.
	Title string

	// Archived hides the session from default listings.
	Archived bool

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is when the session last received a message.
	UpdatedAt time.Time
}

// Message is a single turn within a session.
type Message struct {
	// ID is the unique identifier for the message.
	ID string

	// SessionID links to the owning session.
	SessionID string

	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string

	// Model is the model that produced an assistant message.
	Model string

	// Task is the classified task type for the request, if any.
	Task TaskType

	// RoutingReason is the router's rationale, if any.
	RoutingReason string

	// DocumentsUsed names the document titles injected as context.
	DocumentsUsed []string

	// CreatedAt is when the message was stored.
	CreatedAt time.Time
}

// ChatMessage is a single message in an LLM conversation payload.
// Unlike Message it carries no persistence identity.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}
