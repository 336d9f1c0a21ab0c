package driven

import "context"

// VectorEntry is one chunk to be indexed. IDs follow the pattern
// "{documentID}_chunk_{index}" so per-document deletes can filter on
// metadata rather than parse IDs.
type VectorEntry struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// VectorHit is one nearest-neighbour result. Distance is the raw
// backend distance; smaller means closer.
type VectorHit struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Where restricts an operation to entries whose metadata matches
// every key. A key listing a single value requires equality; a key
// listing several values matches any of them.
type Where map[string][]string

// Eq builds a single equality constraint.
func Eq(key, value string) Where {
	return Where{key: {value}}
}

// VectorStore indexes chunk text for semantic retrieval. Embedding
// happens inside the store so callers only ever deal in text.
type VectorStore interface {
	// Add upserts entries into the index.
	Add(ctx context.Context, entries []VectorEntry) error

	// Query returns up to k nearest entries to the query text,
	// restricted by a non-empty where filter.
	Query(ctx context.Context, text string, k int, where Where) ([]VectorHit, error)

	// DeleteWhere removes all entries matching the where filter.
	DeleteWhere(ctx context.Context, where Where) error

	// Count reports the number of indexed entries.
	Count(ctx context.Context) (int, error)
}
