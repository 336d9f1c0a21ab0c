package domain

// SearchFilter narrows a retrieval query.
type SearchFilter struct {
	// Tags filters to chunks whose owning document carries every one
	// of these tags.
	Tags []string

	// FileTypes filters to specific file type categories.
	FileTypes []string

	// DocumentIDs filters to specific documents.
	DocumentIDs []string
}

// Empty reports whether the filter imposes no constraints.
func (f SearchFilter) Empty() bool {
	return len(f.Tags) == 0 && len(f.FileTypes) == 0 && len(f.DocumentIDs) == 0
}

// SearchResult represents a single retrieval hit.
type SearchResult struct {
	// DocumentID is the owning document.
	DocumentID string

	// Title is the owning document's title.
	Title string

	// Content is the matched chunk text.
	Content string

	// Relevance is a normalised 0-1 score. Computed as 1 - distance
	// under the cosine-distance assumption, clamped into [0, 1].
	Relevance float64

	// Metadata is the retrieval index entry's metadata map.
	Metadata map[string]string
}
