package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

const systemPromptTemplate = `You are Nexus, a helpful personal assistant. You have access to the user's documents and memories, and you maintain context across conversations.

Key behaviors:
- Be concise but thorough
- Remember context from our conversation
- Reference relevant documents when helpful
- Ask clarifying questions when the user's request is ambiguous
- Adapt your communication style to match the user's preferences

%s

%s
`

// sessionTitleLimit caps auto-generated session titles.
const sessionTitleLimit = 50

// ChatService runs routed, context-aware conversations.
type ChatService struct {
	router    driving.RouterService
	indexer   driving.IndexService
	memory    driving.MemoryService
	assembler *AssemblerService
	llm       driven.LLMClient
	sessions  driven.SessionStore
	messages  driven.MessageStore
	settings  domain.Settings
}

// NewChatService creates a new chat service. Memory and indexer are
// optional; chat degrades to plain conversation without them.
func NewChatService(
	router driving.RouterService,
	indexer driving.IndexService,
	memory driving.MemoryService,
	assembler *AssemblerService,
	llm driven.LLMClient,
	sessions driven.SessionStore,
	messages driven.MessageStore,
	settings domain.Settings,
) *ChatService {
	return &ChatService{
		router:    router,
		indexer:   indexer,
		memory:    memory,
		assembler: assembler,
		llm:       llm,
		sessions:  sessions,
		messages:  messages,
		settings:  settings,
	}
}

// Chat processes one user turn: route it, gather context, call the
// model and persist both sides of the exchange.
func (s *ChatService) Chat(ctx context.Context, sessionID, message string, opts driving.ChatOptions) (*driving.ChatReply, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	session, err := s.getOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	decision, err := s.router.Route(ctx, message, opts.ModelOverride)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}

	memoryContext := ""
	if s.memory != nil {
		memoryContext, err = s.memory.RelevantContext(ctx, message)
		if err != nil {
			logger.Warn("Memory context unavailable: %v", err)
			memoryContext = ""
		}
	}

	documentContext := ""
	var documentsUsed []string
	if opts.UseDocuments && s.indexer != nil {
		results, err := s.indexer.Search(ctx, message, s.settings.TopK, domain.SearchFilter{})
		if err != nil {
			logger.Warn("Document retrieval unavailable: %v", err)
		} else if block, titles := s.assembler.Assemble(results); block != "" {
			documentContext = "Relevant documents:\n" + block
			documentsUsed = titles
		}
	}

	system := buildSystemPrompt(memoryContext, documentContext)

	history, err := s.messages.Recent(ctx, session.ID, domain.DefaultHistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	llmMessages := make([]domain.ChatMessage, 0, len(history)+2)
	llmMessages = append(llmMessages, domain.ChatMessage{Role: "system", Content: system})
	for _, m := range history {
		llmMessages = append(llmMessages, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	llmMessages = append(llmMessages, domain.ChatMessage{Role: "user", Content: message})

	if err := s.saveMessage(ctx, session.ID, "user", message, nil); err != nil {
		return nil, err
	}
	if s.memory != nil {
		if _, err := s.memory.Extract(ctx, session.ID, message); err != nil {
			logger.Warn("Memory extraction failed: %v", err)
		}
	}

	var content string
	if opts.OnDelta != nil {
		content, err = s.llm.ChatStream(ctx, decision.Model, llmMessages, driven.GenerateOptions{}, driven.StreamFunc(opts.OnDelta))
	} else {
		content, err = s.llm.Chat(ctx, decision.Model, llmMessages, driven.GenerateOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	reply := &driving.ChatReply{
		Content:   content,
		Model:     decision.Model,
		Task:      decision.Task,
		Reason:    decision.Reason,
		Documents: documentsUsed,
	}
	if err := s.saveMessage(ctx, session.ID, "assistant", content, reply); err != nil {
		return nil, err
	}

	// The first exchange names the session after the opening message.
	if len(history) == 0 && session.Title == "" {
		session.Title = truncateTitle(message)
		session.UpdatedAt = time.Now()
		if err := s.sessions.Save(ctx, session); err != nil {
			logger.Warn("Session title update failed: %v", err)
		}
	}

	return reply, nil
}

// NewSession creates a session with the given title.
func (s *ChatService) NewSession(ctx context.Context, title string) (*domain.Session, error) {
	if title == "" {
		title = "Conversation " + time.Now().Format("2006-01-02 15:04")
	}
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Sessions lists all sessions.
func (s *ChatService) Sessions(ctx context.Context) ([]*domain.Session, error) {
	return s.sessions.List(ctx)
}

// History returns a session's messages, oldest first.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID)
}

func (s *ChatService) getOrCreateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID != "" {
		session, err := s.sessions.Get(ctx, sessionID)
		if err == nil {
			return session, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	// Empty title so the first message can name it.
	now := time.Now()
	session := &domain.Session{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if sessionID != "" {
		session.ID = sessionID
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// saveMessage persists one message and bumps the session timestamp.
func (s *ChatService) saveMessage(ctx context.Context, sessionID, role, content string, reply *driving.ChatReply) error {
	msg := &domain.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if reply != nil {
		msg.Model = reply.Model
		msg.Task = reply.Task
		msg.RoutingReason = reply.Reason
		msg.DocumentsUsed = reply.Documents
	}
	if err := s.messages.Save(ctx, msg); err != nil {
		return fmt.Errorf("save %s message: %w", role, err)
	}

	if session, err := s.sessions.Get(ctx, sessionID); err == nil {
		session.UpdatedAt = time.Now()
		if err := s.sessions.Save(ctx, session); err != nil {
			logger.Warn("Session timestamp update failed: %v", err)
		}
	}
	return nil
}

func buildSystemPrompt(memoryContext, documentContext string) string {
	if memoryContext == "" {
		memoryContext = "No specific user context available."
	}
	if documentContext == "" {
		documentContext = "No relevant documents found."
	}
	return fmt.Sprintf(systemPromptTemplate, memoryContext, documentContext)
}

func truncateTitle(message string) string {
	if len(message) > sessionTitleLimit {
		return message[:sessionTitleLimit] + "..."
	}
	return message
}
