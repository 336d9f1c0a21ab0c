package extractors

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors. Later registrations
// win when two extractors claim the same extension.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry from the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// ForPath returns the extractor registered for the path's extension.
func (r *Registry) ForPath(path string) (driven.Extractor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, fmtUnsupported(path)
	}
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmtUnsupported(path)
	}
	return e, nil
}

// Supported returns every registered extension, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func fmtUnsupported(path string) error {
	return fmt.Errorf("unsupported file type %q: %w", filepath.Base(path), domain.ErrInvalidInput)
}
