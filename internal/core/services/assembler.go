package services

import (
	"fmt"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// resultSeparator joins context blocks from different results.
const resultSeparator = "\n\n---\n\n"

// AssemblerService builds prompt context blocks from search results
// under a token budget.
type AssemblerService struct {
	maxTokens int
}

// NewAssemblerService creates an assembler with the given token
// budget. A non-positive budget falls back to the default.
func NewAssemblerService(maxTokens int) *AssemblerService {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultContextTokens
	}
	return &AssemblerService{maxTokens: maxTokens}
}

// Assemble renders search results into a context block, attributing
// each excerpt to its source document. Results are consumed in order
// until the first one that would exceed the token budget. Returns the
// context plus the titles of the documents that contributed to it.
func (s *AssemblerService) Assemble(results []domain.SearchResult) (string, []string) {
	if len(results) == 0 {
		return "", nil
	}

	var blocks []string
	var titles []string
	seen := make(map[string]bool)
	used := 0

	for _, r := range results {
		cost := estimateTokens(r.Content)
		if used+cost > s.maxTokens {
			break
		}
		blocks = append(blocks, fmt.Sprintf("[From: %s]\n%s", r.Title, r.Content))
		if !seen[r.Title] {
			seen[r.Title] = true
			titles = append(titles, r.Title)
		}
		used += cost
	}

	logger.Debug("Assembled context: %d of %d results, ~%d tokens", len(blocks), len(results), used)
	return strings.Join(blocks, resultSeparator), titles
}

// estimateTokens approximates token count as one per four characters.
func estimateTokens(text string) int {
	return len(text) / 4
}
