package domain

import "time"

// Document represents an indexed document with metadata.
// It is owned by the indexing pipeline and mutated only by
// index, reindex and delete operations.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// FilePath is the original file location, if the document came
	// from disk. Mutually exclusive with SourceURL.
	FilePath string

	// SourceURL is the original web location, if the document was
	// captured from the web. Mutually exclusive with FilePath.
	SourceURL string

	// FileType is the detected category (text, markdown, html, code, data).
	FileType string

	// SizeBytes is the raw content size.
	SizeBytes int64

	// Fingerprint is the 64-hex-character SHA-256 digest of the
	// extracted content. Two documents with the same fingerprint are
	// the same indexed entity.
	Fingerprint string

	// Tags is a free-form tag set.
	Tags []string

	// ChunkCount is the number of chunks written to the retrieval index.
	ChunkCount int

	// IndexedAt is when indexing completed. Nil until the chunk batch
	// has been committed to the retrieval index.
	IndexedAt *time.Time

	// Deleted marks the document as soft-deleted. The record stays in
	// the store; its retrieval index entries are removed.
	Deleted bool

	// Metadata contains arbitrary key-value pairs from extraction.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// TextInput is raw text submitted for indexing directly, without a
// source file on disk.
type TextInput struct {
	// Title names the resulting document. Defaults to "Untitled".
	Title string

	// Text is the content to index. Must be non-empty.
	Text string

	// SourceURL optionally records where the text came from.
	SourceURL string

	// Tags is a free-form tag set for the resulting document.
	Tags []string
}

// Chunk is a bounded text fragment derived from a document, used as
// the unit of retrieval. Chunks are ephemeral: they live in the
// retrieval index, not as first-class records.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// Start is the character offset of the chunk within the document.
	Start int

	// End is the character offset one past the last character.
	End int

	// Index is the ordinal position within the document.
	Index int

	// DocumentID links back to the owning Document.
	DocumentID string
}
