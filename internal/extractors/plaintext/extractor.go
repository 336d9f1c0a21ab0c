package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"txt", "text", "log"}
}

// Extract returns the file content as-is.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extracted, error) {
	return &driven.Extracted{
		Text:     string(content),
		Title:    titleFromPath(path),
		Metadata: map[string]string{"format": "text"},
	}, nil
}

// titleFromPath derives a human-readable title from a filename.
func titleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
