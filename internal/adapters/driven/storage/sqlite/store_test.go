package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Migrations(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	var version int
	err = store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          "doc-1",
		Title:       "Quarterly Report",
		FilePath:    "/home/u/report.md",
		FileType:    "markdown",
		SizeBytes:   2048,
		Fingerprint: "abc123",
		Tags:        []string{"work", "finance"},
		ChunkCount:  4,
		IndexedAt:   &now,
		Metadata:    map[string]any{"author": "me"},
	}
	require.NoError(t, docs.Save(ctx, doc))

	got, err := docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", got.Title)
	assert.Equal(t, []string{"work", "finance"}, got.Tags)
	assert.Equal(t, 4, got.ChunkCount)
	assert.Equal(t, "me", got.Metadata["author"])
	require.NotNil(t, got.IndexedAt)
	assert.WithinDuration(t, now, *got.IndexedAt, time.Second)
}

func TestDocumentStore_GetByPathAndFingerprint(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:          "doc-1",
		Title:       "Notes",
		FilePath:    "/home/u/notes.txt",
		FileType:    "text",
		Fingerprint: "fp-1",
	}
	require.NoError(t, docs.Save(ctx, doc))

	byPath, err := docs.GetByPath(ctx, "/home/u/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byPath.ID)

	byFp, err := docs.GetByFingerprint(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byFp.ID)

	_, err = docs.GetByPath(ctx, "/nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Upsert(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Title: "v1", FilePath: "/a", FileType: "text"}
	require.NoError(t, docs.Save(ctx, doc))

	doc.Title = "v2"
	doc.ChunkCount = 7
	require.NoError(t, docs.Save(ctx, doc))

	got, err := docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.Equal(t, 7, got.ChunkCount)

	all, err := docs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentStore_SoftDelete(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Title: "Gone", FilePath: "/a", FileType: "text", Fingerprint: "fp"}
	require.NoError(t, docs.Save(ctx, doc))
	require.NoError(t, docs.Delete(ctx, "doc-1"))

	_, err := docs.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = docs.GetByFingerprint(ctx, "fp")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := docs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, docs.Delete(ctx, "doc-1"), domain.ErrNotFound)
}

func TestUsageLogStore_OverrideQueries(t *testing.T) {
	store := newTestStore(t)
	usage := store.UsageLogStore()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	records := []*domain.ModelUsage{
		{ID: "u1", Task: domain.TaskCode, AutoModel: "fast", CreatedAt: base},
		{ID: "u2", Task: domain.TaskCode, AutoModel: "fast", OverrideModel: "quality", WasOverride: true, CreatedAt: base.Add(time.Minute)},
		{ID: "u3", Task: domain.TaskCode, AutoModel: "fast", OverrideModel: "balanced", WasOverride: true, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "u4", Task: domain.TaskChat, AutoModel: "fast", OverrideModel: "quality", WasOverride: true, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, r := range records {
		require.NoError(t, usage.Append(ctx, r))
	}

	count, err := usage.CountOverrides(ctx, domain.TaskCode)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	overrides, err := usage.RecentOverrides(ctx, domain.TaskCode, 10)
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	// Newest first.
	assert.Equal(t, "u3", overrides[0].ID)
	assert.Equal(t, "u2", overrides[1].ID)

	overrides, err = usage.RecentOverrides(ctx, domain.TaskCode, 1)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, "u3", overrides[0].ID)
}

func TestUsageLogStore_SetFeedback(t *testing.T) {
	store := newTestStore(t)
	usage := store.UsageLogStore()
	ctx := context.Background()

	require.NoError(t, usage.Append(ctx, &domain.ModelUsage{ID: "u1", Task: domain.TaskChat, AutoModel: "fast"}))
	require.NoError(t, usage.SetFeedback(ctx, "u1", "good"))
	assert.ErrorIs(t, usage.SetFeedback(ctx, "missing", "good"), domain.ErrNotFound)
}

func TestMemoryStore_SearchAndListByType(t *testing.T) {
	store := newTestStore(t)
	mems := store.MemoryStore()
	ctx := context.Background()

	require.NoError(t, mems.Save(ctx, &domain.Memory{
		ID: "m1", Content: "My name is Ada", Type: domain.MemoryFact,
		Category: "personal", Confidence: 1.0,
	}))
	require.NoError(t, mems.Save(ctx, &domain.Memory{
		ID: "m2", Content: "I like espresso", Type: domain.MemoryPreference,
		Category: "interests", Confidence: 0.8,
	}))

	found, err := mems.Search(ctx, "ESPRESSO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "m2", found[0].ID)

	facts, err := mems.ListByType(ctx, domain.MemoryFact)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "m1", facts[0].ID)

	all, err := mems.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Highest confidence first.
	assert.Equal(t, "m1", all[0].ID)
}

func TestMemoryStore_SoftDelete(t *testing.T) {
	store := newTestStore(t)
	mems := store.MemoryStore()
	ctx := context.Background()

	require.NoError(t, mems.Save(ctx, &domain.Memory{ID: "m1", Content: "x", Type: domain.MemoryFact}))
	require.NoError(t, mems.Delete(ctx, "m1"))

	_, err := mems.Get(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := mems.Search(ctx, "x")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSessionStore_ListOrder(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, sessions.Save(ctx, &domain.Session{
		ID: "s1", Title: "old", CreatedAt: base.Add(-2 * time.Hour), UpdatedAt: base.Add(-2 * time.Hour),
	}))
	require.NoError(t, sessions.Save(ctx, &domain.Session{
		ID: "s2", Title: "fresh", CreatedAt: base.Add(-time.Hour), UpdatedAt: base,
	}))

	all, err := sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "s2", all[0].ID)
	assert.Equal(t, "s1", all[1].ID)
}

func TestMessageStore_CascadeDelete(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	messages := store.MessageStore()
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &domain.Session{ID: "s1", Title: "t"}))
	require.NoError(t, messages.Save(ctx, &domain.Message{
		ID: "msg-1", SessionID: "s1", Role: "user", Content: "hello",
	}))
	require.NoError(t, sessions.Delete(ctx, "s1"))

	msgs, err := messages.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageStore_Recent(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	messages := store.MessageStore()
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &domain.Session{ID: "s1", Title: "t"}))

	base := time.Now().UTC().Add(-time.Hour)
	for i, content := range []string{"one", "two", "three", "four"} {
		require.NoError(t, messages.Save(ctx, &domain.Message{
			ID:        content,
			SessionID: "s1",
			Role:      "user",
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := messages.Recent(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Window of the latest two, in chronological order.
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "four", recent[1].Content)

	msg := recent[1]
	assert.Equal(t, "user", msg.Role)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestMessageStore_RoundTripFields(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	messages := store.MessageStore()
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &domain.Session{ID: "s1", Title: "t"}))
	require.NoError(t, messages.Save(ctx, &domain.Message{
		ID:            "msg-1",
		SessionID:     "s1",
		Role:          "assistant",
		Content:       "here you go",
		Model:         "qwen2.5:14b",
		Task:          domain.TaskSummary,
		RoutingReason: "Detected summary task based on query patterns",
		DocumentsUsed: []string{"Quarterly Report"},
	}))

	msgs, err := messages.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	got := msgs[0]
	assert.Equal(t, "qwen2.5:14b", got.Model)
	assert.Equal(t, domain.TaskSummary, got.Task)
	assert.Equal(t, []string{"Quarterly Report"}, got.DocumentsUsed)
}
