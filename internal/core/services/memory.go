package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// Ensure MemoryService implements the interface.
var _ driving.MemoryService = (*MemoryService)(nil)

// factPattern binds an extraction regex to the memory it produces.
type factPattern struct {
	re       *regexp.Regexp
	category string
	typ      domain.MemoryType
}

// factPatterns are matched against user messages to pick up facts
// worth remembering. The whole match becomes the memory content.
var factPatterns = []factPattern{
	{regexp.MustCompile(`my name is (\w+)`), "name", domain.MemoryFact},
	{regexp.MustCompile(`i(?:'m| am) (\d+) years? old`), "age", domain.MemoryFact},
	{regexp.MustCompile(`i(?:'m| am) a ([^.]+?) (?:at|for|in)`), "job", domain.MemoryFact},
	{regexp.MustCompile(`i work (?:at|for|as) ([^.]+)`), "work", domain.MemoryFact},
	{regexp.MustCompile(`i live in ([^.]+)`), "location", domain.MemoryFact},
	{regexp.MustCompile(`i(?:'m| am) from ([^.]+)`), "origin", domain.MemoryFact},

	{regexp.MustCompile(`i (?:like|love|enjoy|prefer) ([^.]+)`), "", domain.MemoryPreference},
	{regexp.MustCompile(`i (?:don't like|hate|dislike) ([^.]+)`), "", domain.MemoryPreference},
	{regexp.MustCompile(`my favorite ([^.]+) is ([^.]+)`), "", domain.MemoryPreference},

	{regexp.MustCompile(`i(?:'m| am) (?:interested in|curious about|learning) ([^.]+)`), "", domain.MemoryTopic},
	{regexp.MustCompile(`i(?:'m| am) working on ([^.]+)`), "", domain.MemoryTopic},
}

// extractedConfidence is the confidence assigned to pattern-extracted
// memories, below the 1.0 of explicitly stored ones.
const extractedConfidence = 0.8

// MemoryService extracts and recalls long-lived facts about the user.
type MemoryService struct {
	store driven.MemoryStore
}

// NewMemoryService creates a new memory service.
func NewMemoryService(store driven.MemoryStore) *MemoryService {
	return &MemoryService{store: store}
}

// Extract scans a user message for facts, preferences and topics,
// storing any that are not already known.
func (s *MemoryService) Extract(ctx context.Context, sessionID, userMessage string) ([]*domain.Memory, error) {
	lower := strings.ToLower(userMessage)

	var extracted []*domain.Memory
	for _, fp := range factPatterns {
		for _, match := range fp.re.FindAllString(lower, -1) {
			// Skip facts we already hold.
			existing, err := s.store.Search(ctx, match)
			if err != nil {
				return nil, fmt.Errorf("memory lookup: %w", err)
			}
			if len(existing) > 0 {
				continue
			}

			category := fp.category
			if category == "" {
				category = "general"
			}

			now := time.Now()
			mem := &domain.Memory{
				ID:         uuid.New().String(),
				Content:    capitalize(match),
				Type:       fp.typ,
				Category:   category,
				Source:     "Extracted from conversation",
				SessionID:  sessionID,
				Confidence: extractedConfidence,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.store.Save(ctx, mem); err != nil {
				return nil, fmt.Errorf("save memory: %w", err)
			}
			extracted = append(extracted, mem)
		}
	}

	if len(extracted) > 0 {
		logger.Debug("Extracted %d memories from message", len(extracted))
	}
	return extracted, nil
}

// Remember stores an explicit memory with full confidence.
func (s *MemoryService) Remember(ctx context.Context, content string, typ domain.MemoryType, category string) (*domain.Memory, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty memory content: %w", domain.ErrInvalidInput)
	}
	if category == "" {
		category = "general"
	}

	now := time.Now()
	mem := &domain.Memory{
		ID:         uuid.New().String(),
		Content:    content,
		Type:       typ,
		Category:   category,
		Source:     "User provided",
		Confidence: 1.0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Save(ctx, mem); err != nil {
		return nil, err
	}
	return mem, nil
}

// List returns all stored memories.
func (s *MemoryService) List(ctx context.Context) ([]*domain.Memory, error) {
	return s.store.List(ctx)
}

// Forget deletes a memory by ID.
func (s *MemoryService) Forget(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// relevantLimit caps how many memories feed one prompt.
const relevantLimit = 10

// RelevantContext builds a prompt block of memories touching on the
// message's terms. Short words are ignored so stopwords do not match
// everything.
func (s *MemoryService) RelevantContext(ctx context.Context, message string) (string, error) {
	var relevant []*domain.Memory
	seen := make(map[string]bool)

	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if len(word) < 4 {
			continue
		}
		matches, err := s.store.Search(ctx, word)
		if err != nil {
			return "", err
		}
		for _, m := range matches {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			relevant = append(relevant, m)
			if len(relevant) == relevantLimit {
				break
			}
		}
		if len(relevant) == relevantLimit {
			break
		}
	}

	if len(relevant) == 0 {
		return "", nil
	}

	parts := []string{"What I know about you:"}
	for _, m := range relevant {
		parts = append(parts, "- "+m.Content)
	}
	return strings.Join(parts, "\n"), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
