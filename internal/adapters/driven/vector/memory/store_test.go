package memory

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// hashEmbedder embeds text as a bag-of-words vector so texts sharing
// vocabulary land close together.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, _, text string) ([]float32, error) {
	vec := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

func newTestStore() *Store {
	return New(hashEmbedder{}, "test-embed")
}

func seedEntries(t *testing.T, store *Store) {
	t.Helper()
	err := store.Add(context.Background(), []driven.VectorEntry{
		{ID: "doc1_chunk_0", Text: "pasta carbonara recipe with eggs", Metadata: map[string]string{"document_id": "doc1", "file_type": "txt"}},
		{ID: "doc1_chunk_1", Text: "simmer the sauce with pecorino", Metadata: map[string]string{"document_id": "doc1", "file_type": "txt"}},
		{ID: "doc2_chunk_0", Text: "quarterly budget review meeting", Metadata: map[string]string{"document_id": "doc2", "file_type": "md"}},
	})
	require.NoError(t, err)
}

func TestStore_QueryRanksBySimilarity(t *testing.T) {
	store := newTestStore()
	seedEntries(t, store)

	hits, err := store.Query(context.Background(), "pasta carbonara with eggs", 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "doc1_chunk_0", hits[0].ID)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
	assert.GreaterOrEqual(t, hits[0].Distance, 0.0)
}

func TestStore_QueryRespectsK(t *testing.T) {
	store := newTestStore()
	seedEntries(t, store)

	hits, err := store.Query(context.Background(), "budget", 1, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestStore_QueryWithWhere(t *testing.T) {
	store := newTestStore()
	seedEntries(t, store)

	hits, err := store.Query(context.Background(), "anything", 10, driven.Eq("document_id", "doc2"))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc2_chunk_0", hits[0].ID)
}

func TestStore_QueryWhereMatchesAnyListedValue(t *testing.T) {
	store := newTestStore()
	seedEntries(t, store)

	hits, err := store.Query(context.Background(), "anything", 10,
		driven.Where{"document_id": {"doc2", "missing"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc2_chunk_0", hits[0].ID)

	hits, err = store.Query(context.Background(), "anything", 10,
		driven.Where{"document_id": {"doc1", "doc2"}, "file_type": {"txt"}})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestStore_QueryInvalidK(t *testing.T) {
	store := newTestStore()

	_, err := store.Query(context.Background(), "anything", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_AddUpserts(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	entry := driven.VectorEntry{ID: "a", Text: "first version", Metadata: map[string]string{"document_id": "d"}}
	require.NoError(t, store.Add(ctx, []driven.VectorEntry{entry}))
	entry.Text = "second version"
	require.NoError(t, store.Add(ctx, []driven.VectorEntry{entry}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := store.Query(ctx, "second version", 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "second version", hits[0].Text)
}

func TestStore_DeleteWhere(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	seedEntries(t, store)

	require.NoError(t, store.DeleteWhere(ctx, driven.Eq("document_id", "doc1")))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := store.Query(ctx, "pasta", 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc2_chunk_0", hits[0].ID)
}
