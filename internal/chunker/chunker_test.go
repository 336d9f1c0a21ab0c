package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

func TestChunk_ShortText(t *testing.T) {
	c := New(WithSize(100), WithOverlap(20))

	chunks, err := c.Chunk("just a short sentence.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short sentence.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 22, chunks[0].End)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestChunk_EmptyText(t *testing.T) {
	c := New()

	chunks, err := c.Chunk("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_WhitespaceOnlyDropped(t *testing.T) {
	c := New(WithSize(10), WithOverlap(0))

	chunks, err := c.Chunk("          ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_OverlapNotSmallerThanSize(t *testing.T) {
	c := New(WithSize(100), WithOverlap(100))

	_, err := c.Chunk(strings.Repeat("a", 500))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestChunk_CoversFullRange(t *testing.T) {
	c := New(WithSize(100), WithOverlap(20))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// First window starts at zero, last window reaches the end, and
	// each window overlaps or touches its predecessor: the union of
	// ranges covers the whole text.
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].Start, chunks[i-1].End,
			"chunk %d must start at or before the previous end", i)
		assert.Greater(t, chunks[i].End, chunks[i-1].End,
			"chunk %d must extend past the previous end", i)
	}
}

func TestChunk_MonotonicIndexes(t *testing.T) {
	c := New(WithSize(80), WithOverlap(10))
	text := strings.Repeat("Sentences everywhere. ", 50)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
	}
}

func TestChunk_PrefersParagraphBreak(t *testing.T) {
	c := New(WithSize(100), WithOverlap(0))

	// The paragraph break sits past the window midpoint, so the first
	// chunk must end there rather than cut mid-sentence.
	first := strings.Repeat("a", 40) + " more text here.\n\n"
	text := first + strings.Repeat("b", 100)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, len(first), chunks[0].End)
	assert.NotContains(t, chunks[0].Text, "b")
}

func TestChunk_FallsBackToSentenceBreak(t *testing.T) {
	c := New(WithSize(100), WithOverlap(0))

	// No paragraph break; a sentence end past the midpoint wins.
	first := strings.Repeat("a", 60) + " end of sentence. "
	text := first + strings.Repeat("b", 100)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, len(first), chunks[0].End)
}

func TestChunk_AcceptsRawBoundaryWithoutBreaks(t *testing.T) {
	c := New(WithSize(100), WithOverlap(0))
	text := strings.Repeat("a", 250)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 100, chunks[0].End)
	assert.Equal(t, 200, chunks[1].End)
	assert.Equal(t, 250, chunks[2].End)
}

func TestChunk_NoEmptyChunks(t *testing.T) {
	c := New(WithSize(50), WithOverlap(10))
	text := "First paragraph.\n\n\n\n   \n\nSecond paragraph with more words in it."

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk.Text))
	}
}

func TestChunk_MultiByteTextStaysValid(t *testing.T) {
	c := New(WithSize(101), WithOverlap(10))
	text := strings.Repeat("é", 400)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Text), "chunk %d is not valid UTF-8", i)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Text), 101)
	}
}

func TestChunk_OffsetsCountCharacters(t *testing.T) {
	c := New(WithSize(10), WithOverlap(0))
	text := strings.Repeat("日本語テキスト分割処理", 3)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i*10, chunk.Start)
		assert.Equal(t, (i+1)*10, chunk.End)
		assert.Equal(t, "日本語テキスト分割処理", chunk.Text)
	}
}

func TestChunk_MixedScriptSentenceBreak(t *testing.T) {
	c := New(WithSize(100), WithOverlap(0))

	// Sentence end past the midpoint, surrounded by multi-byte text.
	first := strings.Repeat("ü", 60) + " fin de phrase. "
	text := first + strings.Repeat("ß", 100)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, utf8.RuneCountInString(first), chunks[0].End)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Text), "chunk %d is not valid UTF-8", i)
	}
}

func TestChunk_TerminatesWithLargeOverlap(t *testing.T) {
	// Overlap close to size with boundary rewinds must still finish.
	c := New(WithSize(100), WithOverlap(90))
	text := strings.Repeat("Short. ", 300)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
}
