// Package chunker splits document text into overlapping,
// boundary-aware segments for indexing.
package chunker

import (
	"fmt"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// sentenceEnders are the punctuation sequences treated as sentence
// boundaries when no paragraph break is available.
var sentenceEnders = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// Chunker splits text into chunks of a configured size.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk window in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    domain.DefaultChunkSize,
		overlap: domain.DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into ordered, overlapping chunks.
//
// Windows are measured in characters, not bytes, so multi-byte text is
// never cut mid-character. Each window is at most c.size characters.
// When a raw window would cut mid-sentence, the end boundary rewinds to
// the nearest paragraph break past the window's midpoint, else to the
// nearest sentence-ending punctuation past the midpoint. Each
// subsequent window starts at end - overlap. Windows that are empty
// after trimming are dropped. Chunk offsets are character offsets.
//
// An overlap >= size cannot make forward progress and is a caller
// configuration error.
func (c *Chunker) Chunk(text string) ([]domain.Chunk, error) {
	if c.overlap >= c.size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, c.overlap, c.size)
	}

	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return nil, nil
	}

	estimated := textLen/(c.size-c.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	index := 0
	for start < textLen {
		end := start + c.size
		if end >= textLen {
			end = textLen
		} else {
			end = c.adjustBoundary(runes, start, end)
		}

		if content := strings.TrimSpace(string(runes[start:end])); content != "" {
			chunks = append(chunks, domain.Chunk{
				Text:  content,
				Start: start,
				End:   end,
				Index: index,
			})
			index++
		}

		// Boundary rewind can shrink the window below the overlap;
		// never let the next window start at or before this one.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// adjustBoundary rewinds a raw window end to the nearest natural break
// past the window's midpoint. Paragraph breaks win over sentence ends;
// when neither exists, the raw boundary stands.
func (c *Chunker) adjustBoundary(runes []rune, start, end int) int {
	mid := start + c.size/2

	if para := lastPair(runes, start, end, '\n', '\n'); para > mid {
		return para + 2
	}

	for _, punct := range sentenceEnders {
		p := []rune(punct)
		if sent := lastPair(runes, start, end, p[0], p[1]); sent > mid {
			return sent + 2
		}
	}

	return end
}

// lastPair returns the highest i in [start, end-2] where runes[i] and
// runes[i+1] equal the pair, or -1.
func lastPair(runes []rune, start, end int, a, b rune) int {
	for i := end - 2; i >= start; i-- {
		if runes[i] == a && runes[i+1] == b {
			return i
		}
	}
	return -1
}
