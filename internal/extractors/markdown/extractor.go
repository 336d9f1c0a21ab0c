package markdown

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown files.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"md", "markdown"}
}

// Extract returns the Markdown source as text. The title comes from
// the first level-one heading when present, otherwise the filename.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extracted, error) {
	text := string(content)

	title := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}
	if title == "" {
		title = titleFromPath(path)
	}

	return &driven.Extracted{
		Text:     text,
		Title:    title,
		Metadata: map[string]string{"format": "markdown"},
	}, nil
}

func titleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
