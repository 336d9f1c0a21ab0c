package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
)

// stubIndexService returns canned documents and results.
type stubIndexService struct {
	docs      []*domain.Document
	results   []domain.SearchResult
	summary   string
	deleted   []string
	textInput *domain.TextInput
}

var _ driving.IndexService = (*stubIndexService)(nil)

func (s *stubIndexService) Index(_ context.Context, path string, tags []string) (*domain.Document, error) {
	now := time.Now()
	return &domain.Document{
		ID: "doc-1", Title: "Stub Document", FilePath: path,
		Tags: tags, ChunkCount: 3, IndexedAt: &now,
	}, nil
}

func (s *stubIndexService) IndexText(_ context.Context, input domain.TextInput) (*domain.Document, error) {
	s.textInput = &input
	now := time.Now()
	title := input.Title
	if title == "" {
		title = "Untitled"
	}
	return &domain.Document{
		ID: "doc-2", Title: title, SourceURL: input.SourceURL,
		Tags: input.Tags, ChunkCount: 2, IndexedAt: &now,
	}, nil
}

func (s *stubIndexService) Reindex(_ context.Context, id string) (*domain.Document, error) {
	return &domain.Document{ID: id, Title: "Stub Document", ChunkCount: 4}, nil
}

func (s *stubIndexService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubIndexService) List(_ context.Context) ([]*domain.Document, error) {
	return s.docs, nil
}

func (s *stubIndexService) Search(_ context.Context, _ string, _ int, _ domain.SearchFilter) ([]domain.SearchResult, error) {
	return s.results, nil
}

func (s *stubIndexService) Summarize(_ context.Context, _ string) (string, error) {
	return s.summary, nil
}

// stubChatService echoes a canned reply.
type stubChatService struct {
	reply    *driving.ChatReply
	sessions []*domain.Session
	history  []*domain.Message
}

var _ driving.ChatService = (*stubChatService)(nil)

func (s *stubChatService) Chat(_ context.Context, _, _ string, opts driving.ChatOptions) (*driving.ChatReply, error) {
	if opts.OnDelta != nil {
		if err := opts.OnDelta(s.reply.Content); err != nil {
			return nil, err
		}
	}
	return s.reply, nil
}

func (s *stubChatService) NewSession(_ context.Context, title string) (*domain.Session, error) {
	return &domain.Session{ID: "sess-1", Title: title}, nil
}

func (s *stubChatService) Sessions(_ context.Context) ([]*domain.Session, error) {
	return s.sessions, nil
}

func (s *stubChatService) History(_ context.Context, _ string) ([]*domain.Message, error) {
	return s.history, nil
}

// stubAgentService replays scripted events.
type stubAgentService struct {
	events []domain.AgentEvent
	answer string
}

var _ driving.AgentService = (*stubAgentService)(nil)

func (s *stubAgentService) Run(_ context.Context, _ string, fn func(domain.AgentEvent) error) (string, error) {
	for _, e := range s.events {
		if err := fn(e); err != nil {
			return "", err
		}
	}
	return s.answer, nil
}

func (s *stubAgentService) Tools() []string {
	return []string{"calculator"}
}

// stubMemoryService stores nothing.
type stubMemoryService struct {
	memories []*domain.Memory
}

var _ driving.MemoryService = (*stubMemoryService)(nil)

func (s *stubMemoryService) Extract(_ context.Context, _, _ string) ([]*domain.Memory, error) {
	return nil, nil
}

func (s *stubMemoryService) Remember(_ context.Context, content string, typ domain.MemoryType, category string) (*domain.Memory, error) {
	return &domain.Memory{ID: "mem-1", Content: content, Type: typ, Category: category, Confidence: 1.0}, nil
}

func (s *stubMemoryService) List(_ context.Context) ([]*domain.Memory, error) {
	return s.memories, nil
}

func (s *stubMemoryService) Forget(_ context.Context, _ string) error {
	return nil
}

func (s *stubMemoryService) RelevantContext(_ context.Context, _ string) (string, error) {
	return "", nil
}

// stubRouterService routes everything to one model.
type stubRouterService struct {
	decision *domain.RoutingDecision
}

var _ driving.RouterService = (*stubRouterService)(nil)

func (s *stubRouterService) Route(_ context.Context, _, override string) (*domain.RoutingDecision, error) {
	d := *s.decision
	if override != "" {
		d.Model = override
	}
	return &d, nil
}

func (s *stubRouterService) Feedback(_ context.Context, _ string, _ bool) error {
	return nil
}

func (s *stubRouterService) Models(_ context.Context) (map[domain.Tier]string, error) {
	return domain.DefaultModels(), nil
}

// setupTestServices wires stub services and returns a restore func.
func setupTestServices() func() {
	old := Services{
		Index:  indexService,
		Chat:   chatService,
		Agent:  agentService,
		Memory: memoryService,
		Router: routerService,
		Watch:  watchRunner,
	}

	SetServices(Services{
		Index: &stubIndexService{
			docs: []*domain.Document{
				{ID: "doc-1", Title: "Quarterly Report", FilePath: "/tmp/report.md", ChunkCount: 3},
			},
			results: []domain.SearchResult{
				{DocumentID: "doc-1", Title: "Quarterly Report", Content: "Revenue grew in Q3.", Relevance: 0.91},
			},
			summary: "A strong quarter overall.",
		},
		Chat: &stubChatService{
			reply: &driving.ChatReply{
				Content: "Hello!", Model: "llama3.1:8b", Task: domain.TaskChat,
				Reason: "General conversation (no specific task patterns detected)",
			},
			sessions: []*domain.Session{{ID: "sess-1", Title: "morning check-in"}},
			history: []*domain.Message{
				{ID: "m1", Role: "user", Content: "hi"},
				{ID: "m2", Role: "assistant", Content: "Hello!", Model: "llama3.1:8b"},
			},
		},
		Agent: &stubAgentService{
			events: []domain.AgentEvent{
				{Type: domain.AgentEventContent, Content: "Working on it."},
				{Type: domain.AgentEventDone, Content: "Working on it."},
			},
			answer: "Working on it.",
		},
		Memory: &stubMemoryService{
			memories: []*domain.Memory{
				{ID: "mem-1", Content: "Lives in Lisbon", Type: domain.MemoryFact, Category: "location", Confidence: 0.8},
			},
		},
		Router: &stubRouterService{
			decision: &domain.RoutingDecision{
				Task: domain.TaskChat, Model: "llama3.1:8b",
				Reason: "General conversation (no specific task patterns detected)",
			},
		},
	})

	return func() { SetServices(old) }
}

// execute runs the root command with args, capturing output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
