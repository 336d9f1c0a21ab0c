package domain

import "time"

// MemoryType categorises a stored fact about the user.
type MemoryType string

// Available memory types.
const (
	// MemoryFact is a concrete statement (name, job, location).
	MemoryFact MemoryType = "fact"

	// MemoryPreference is a like, dislike or favourite.
	MemoryPreference MemoryType = "preference"

	// MemoryTopic is an interest or ongoing project.
	MemoryTopic MemoryType = "topic"
)

// IsValid returns true if the memory type is recognised.
func (m MemoryType) IsValid() bool {
	switch m {
	case MemoryFact, MemoryPreference, MemoryTopic:
		return true
	default:
		return false
	}
}

// Memory is a persistent fact about the user, extracted from
// conversation or entered explicitly.
type Memory struct {
	// ID is the unique identifier for the memory.
	ID string

	// Content is the fact text.
	Content string

	// Type categorises the memory.
	Type MemoryType

	// Category is a free-form grouping (personal, professional, interests).
	Category string

	// Source describes where the memory came from.
	Source string

	// SessionID links to the conversation the memory was extracted
	// from, when applicable.
	SessionID string

	// Confidence is 0-1; extracted memories score lower than
	// explicitly entered ones.
	Confidence float64

	// Deleted marks the memory as soft-deleted.
	Deleted bool

	// CreatedAt is when the memory was stored.
	CreatedAt time.Time

	// UpdatedAt is when the memory was last modified.
	UpdatedAt time.Time
}
