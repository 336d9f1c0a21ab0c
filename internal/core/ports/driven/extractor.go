package driven

import "context"

// Extracted is the product of text extraction: plain text plus any
// metadata the extractor could recover from the source.
type Extracted struct {
	Text     string
	Title    string
	Metadata map[string]string
}

// Extractor converts one family of file formats into plain text
// suitable for chunking.
type Extractor interface {
	// Extensions returns the lowercase file extensions this
	// extractor handles, without the leading dot.
	Extensions() []string

	// Extract converts raw file content into text.
	Extract(ctx context.Context, path string, content []byte) (*Extracted, error)
}

// ExtractorRegistry resolves an extractor for a file path.
type ExtractorRegistry interface {
	// ForPath returns the extractor registered for the path's
	// extension, or domain.ErrInvalidInput when unsupported.
	ForPath(path string) (Extractor, error)

	// Supported returns every registered extension.
	Supported() []string
}
