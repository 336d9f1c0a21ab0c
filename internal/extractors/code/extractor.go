package code

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles source code files.
type Extractor struct{}

// New creates a new source code extractor.
func New() *Extractor {
	return &Extractor{}
}

// languages maps file extensions to language names used in the
// extracted header.
var languages = map[string]string{
	"go":    "Go",
	"py":    "Python",
	"js":    "JavaScript",
	"jsx":   "JavaScript",
	"ts":    "TypeScript",
	"tsx":   "TypeScript",
	"java":  "Java",
	"c":     "C",
	"h":     "C",
	"cpp":   "C++",
	"hpp":   "C++",
	"cs":    "C#",
	"rs":    "Rust",
	"rb":    "Ruby",
	"php":   "PHP",
	"sh":    "Shell",
	"bash":  "Shell",
	"sql":   "SQL",
	"swift": "Swift",
	"kt":    "Kotlin",
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	exts := make([]string, 0, len(languages))
	for ext := range languages {
		exts = append(exts, ext)
	}
	return exts
}

// Extract prefixes the source with a small header naming the file and
// language so retrieval hits carry their provenance.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extracted, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	lang := languages[ext]
	if lang == "" {
		lang = "Unknown"
	}

	name := filepath.Base(path)
	text := fmt.Sprintf("File: %s\nLanguage: %s\n\n%s", name, lang, string(content))

	return &driven.Extracted{
		Text:     text,
		Title:    name,
		Metadata: map[string]string{"format": "code", "language": lang},
	}, nil
}
