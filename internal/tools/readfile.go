package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// maxReadBytes caps how much file content a single tool call returns.
const maxReadBytes = 10000

// ReadFile reads text files from a set of allowed directories. Paths
// outside the allow-list are refused.
type ReadFile struct {
	roots []string
}

// NewReadFile creates the file reading tool. Only files under the
// given root directories may be read.
func NewReadFile(roots []string) *ReadFile {
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			cleaned = append(cleaned, abs)
		}
	}
	return &ReadFile{roots: cleaned}
}

func (r *ReadFile) Name() string { return "read_file" }

func (r *ReadFile) Description() string {
	return "Read the contents of a text file from an allowed directory."
}

func (r *ReadFile) Parameters() map[string]ParamSpec {
	return map[string]ParamSpec{
		"path": {
			Type:        "string",
			Description: "Absolute path of the file to read",
			Required:    true,
		},
	}
}

func (r *ReadFile) Call(_ context.Context, params map[string]any) (any, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", domain.ErrInvalidInput)
	}
	if !r.allowed(abs) {
		return nil, fmt.Errorf("path %q is outside allowed directories: %w", abs, domain.ErrPermissionDenied)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", abs, domain.ErrNotFound)
		}
		return nil, err
	}

	text := string(content)
	truncated := false
	if len(text) > maxReadBytes {
		text = text[:maxReadBytes]
		truncated = true
	}

	return map[string]any{
		"path":      abs,
		"content":   text,
		"truncated": truncated,
	}, nil
}

func (r *ReadFile) allowed(abs string) bool {
	for _, root := range r.roots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
