package data

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles structured data files. The content is indexed
// verbatim since formats like JSON and CSV are already readable text.
type Extractor struct{}

// New creates a new data file extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"json", "yaml", "yml", "toml", "csv", "tsv", "xml"}
}

// Extract returns the file content as-is.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extracted, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return &driven.Extracted{
		Text:     string(content),
		Title:    filepath.Base(path),
		Metadata: map[string]string{"format": ext},
	}, nil
}
