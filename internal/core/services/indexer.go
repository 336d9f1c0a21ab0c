package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-labs/nexus-cli/internal/chunker"
	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexService = (*IndexerService)(nil)

// IndexerService ingests files into the document index and serves
// semantic retrieval over them.
type IndexerService struct {
	docs     driven.DocumentStore
	vectors  driven.VectorStore
	registry driven.ExtractorRegistry
	chunker  *chunker.Chunker
	llm      driven.LLMClient
	settings domain.Settings

	// mu guards locks. Entries serialise work per file path (so a
	// watcher event and a manual index cannot race) and per document
	// ID (so reindex and delete on the same document never
	// interleave). Path locks are always taken before ID locks.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIndexerService creates a new indexer. The LLM client is optional
// and only needed for Summarize.
func NewIndexerService(
	docs driven.DocumentStore,
	vectors driven.VectorStore,
	registry driven.ExtractorRegistry,
	ch *chunker.Chunker,
	llm driven.LLMClient,
	settings domain.Settings,
) *IndexerService {
	return &IndexerService{
		docs:     docs,
		vectors:  vectors,
		registry: registry,
		chunker:  ch,
		llm:      llm,
		settings: settings,
		locks:    make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex serialising work on one key.
func (s *IndexerService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *IndexerService) pathLock(path string) *sync.Mutex {
	return s.keyLock("path\x00" + path)
}

func (s *IndexerService) idLock(id string) *sync.Mutex {
	return s.keyLock("id\x00" + id)
}

// Index ingests a file. Files whose content fingerprint is already
// indexed are skipped and the existing document returned. A file whose
// path is known but whose content changed is reindexed in place.
func (s *IndexerService) Index(ctx context.Context, path string, tags []string) (*domain.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, domain.ErrInvalidInput)
	}

	lock := s.pathLock(abs)
	lock.Lock()
	defer lock.Unlock()

	extracted, fingerprint, size, err := s.extract(ctx, abs)
	if err != nil {
		return nil, err
	}

	// Same content already indexed, regardless of path.
	if existing, err := s.docs.GetByFingerprint(ctx, fingerprint); err == nil {
		logger.Debug("Skipping %s: fingerprint already indexed as %s", abs, existing.ID)
		return existing, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	// Known path with changed content keeps its document identity.
	doc, err := s.docs.GetByPath(ctx, abs)
	switch {
	case err == nil:
		logger.Debug("Content changed for %s, reindexing in place", abs)
	case isNotFound(err):
		now := time.Now()
		doc = &domain.Document{
			ID:        uuid.New().String(),
			FilePath:  abs,
			Tags:      tags,
			CreatedAt: now,
		}
	default:
		return nil, err
	}

	if len(tags) > 0 {
		doc.Tags = tags
	}

	idLock := s.idLock(doc.ID)
	idLock.Lock()
	defer idLock.Unlock()

	return s.writeIndex(ctx, doc, extracted, fingerprint, size)
}

// IndexText ingests raw text submitted directly, with its metadata.
// Text whose content fingerprint is already indexed is skipped and the
// existing document returned.
func (s *IndexerService) IndexText(ctx context.Context, input domain.TextInput) (*domain.Document, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("empty text: %w", domain.ErrInvalidInput)
	}

	sum := sha256.Sum256([]byte(input.Text))
	fingerprint := hex.EncodeToString(sum[:])

	// Serialise on the fingerprint so two submissions of the same
	// content cannot both pass the dedup check.
	lock := s.keyLock("fp\x00" + fingerprint)
	lock.Lock()
	defer lock.Unlock()

	if existing, err := s.docs.GetByFingerprint(ctx, fingerprint); err == nil {
		logger.Debug("Skipping text submission: fingerprint already indexed as %s", existing.ID)
		return existing, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled"
	}
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		SourceURL: input.SourceURL,
		Tags:      input.Tags,
		CreatedAt: time.Now(),
	}

	idLock := s.idLock(doc.ID)
	idLock.Lock()
	defer idLock.Unlock()

	extracted := &driven.Extracted{Title: title, Text: input.Text}
	return s.writeIndex(ctx, doc, extracted, fingerprint, int64(len(input.Text)))
}

// Reindex re-ingests a document from its source path, keeping its ID.
func (s *IndexerService) Reindex(ctx context.Context, id string) (*domain.Document, error) {
	lock := s.idLock(id)
	lock.Lock()
	defer lock.Unlock()

	// Looked up under the lock: a delete that won the race makes
	// this a not-found, never a resurrection.
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.FilePath == "" {
		return nil, fmt.Errorf("document %s has no source path: %w", id, domain.ErrInvalidInput)
	}

	extracted, fingerprint, size, err := s.extract(ctx, doc.FilePath)
	if err != nil {
		return nil, err
	}
	return s.writeIndex(ctx, doc, extracted, fingerprint, size)
}

// Delete removes a document and all its chunks from the index. The
// document record is kept, flagged deleted.
func (s *IndexerService) Delete(ctx context.Context, id string) error {
	lock := s.idLock(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.docs.Get(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.DeleteWhere(ctx, driven.Eq("document_id", id)); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return s.docs.Delete(ctx, id)
}

// List returns all indexed documents.
func (s *IndexerService) List(ctx context.Context) ([]*domain.Document, error) {
	return s.docs.List(ctx)
}

// Search performs semantic retrieval over indexed chunks. Relevance is
// derived from vector distance and clamped into [0, 1].
func (s *IndexerService) Search(ctx context.Context, query string, topK int, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.settings.TopK
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	// Document and file type constraints go to the store; only the
	// tag filter stays client-side, since tags live as one CSV value
	// per chunk and need every-tag matching.
	var where driven.Where
	if len(filter.DocumentIDs) > 0 || len(filter.FileTypes) > 0 {
		where = driven.Where{}
		if len(filter.DocumentIDs) > 0 {
			where["document_id"] = filter.DocumentIDs
		}
		if len(filter.FileTypes) > 0 {
			where["file_type"] = filter.FileTypes
		}
	}

	// Over-fetch when post-filtering on tags, so the filter does not
	// starve topK.
	fetch := topK
	if len(filter.Tags) > 0 {
		fetch = topK * 3
	}

	hits, err := s.vectors.Query(ctx, query, fetch, where)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if !matchesTags(hit.Metadata, filter.Tags) {
			continue
		}
		results = append(results, domain.SearchResult{
			DocumentID: hit.Metadata["document_id"],
			Title:      hit.Metadata["title"],
			Content:    hit.Text,
			Relevance:  clampRelevance(1 - hit.Distance),
			Metadata:   hit.Metadata,
		})
		if len(results) == topK {
			break
		}
	}

	logger.Debug("Search %q: %d results", query, len(results))
	return results, nil
}

// Summarize produces an LLM summary of one document from its source.
func (s *IndexerService) Summarize(ctx context.Context, id string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.FilePath == "" {
		return "", fmt.Errorf("document %s has no source path: %w", id, domain.ErrInvalidInput)
	}

	extracted, _, _, err := s.extract(ctx, doc.FilePath)
	if err != nil {
		return "", err
	}

	text := extracted.Text
	budget := s.settings.ContextTokens * 4
	if budget > 0 && len(text) > budget {
		text = text[:budget]
	}

	prompt := fmt.Sprintf("Summarize the following document titled %q. Cover the key points concisely.\n\n%s", doc.Title, text)
	summary, err := s.llm.Generate(ctx, s.settings.ModelFor(domain.TierDocument), prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", id, err)
	}
	return summary, nil
}

// extract reads a file and runs it through its extractor.
func (s *IndexerService) extract(ctx context.Context, abs string) (*driven.Extracted, string, int64, error) {
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", 0, fmt.Errorf("%s: %w", abs, domain.ErrNotFound)
		}
		return nil, "", 0, err
	}

	extractor, err := s.registry.ForPath(abs)
	if err != nil {
		return nil, "", 0, err
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", 0, err
	}

	extracted, err := extractor.Extract(ctx, abs, content)
	if err != nil {
		return nil, "", 0, fmt.Errorf("extract %s: %w", abs, err)
	}

	sum := sha256.Sum256([]byte(extracted.Text))
	return extracted, hex.EncodeToString(sum[:]), info.Size(), nil
}

// writeIndex chunks extracted text, replaces the document's vectors
// and persists the updated record.
func (s *IndexerService) writeIndex(ctx context.Context, doc *domain.Document, extracted *driven.Extracted, fingerprint string, size int64) (*domain.Document, error) {
	chunks, err := s.chunker.Chunk(extracted.Text)
	if err != nil {
		return nil, err
	}

	// Replace, never append: stale chunks from a previous version
	// must not survive.
	if err := s.vectors.DeleteWhere(ctx, driven.Eq("document_id", doc.ID)); err != nil {
		return nil, fmt.Errorf("clear chunks: %w", err)
	}

	fileType := "text"
	if doc.FilePath != "" {
		fileType = strings.TrimPrefix(filepath.Ext(doc.FilePath), ".")
	}
	title := extracted.Title
	if title == "" {
		title = filepath.Base(doc.FilePath)
	}

	entries := make([]driven.VectorEntry, 0, len(chunks))
	for _, c := range chunks {
		entries = append(entries, driven.VectorEntry{
			ID:   fmt.Sprintf("%s_chunk_%d", doc.ID, c.Index),
			Text: c.Text,
			Metadata: map[string]string{
				"document_id": doc.ID,
				"title":       title,
				"chunk_index": strconv.Itoa(c.Index),
				"start_pos":   strconv.Itoa(c.Start),
				"end_pos":     strconv.Itoa(c.End),
				"file_type":   fileType,
				"file_path":   doc.FilePath,
				"tags":        strings.Join(doc.Tags, ","),
			},
		})
	}
	if len(entries) > 0 {
		if err := s.vectors.Add(ctx, entries); err != nil {
			return nil, fmt.Errorf("index chunks: %w", err)
		}
	}

	now := time.Now()
	doc.Title = title
	doc.FileType = fileType
	doc.SizeBytes = size
	doc.Fingerprint = fingerprint
	doc.ChunkCount = len(chunks)
	doc.IndexedAt = &now
	doc.UpdatedAt = now
	doc.Deleted = false
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	for k, v := range extracted.Metadata {
		doc.Metadata[k] = v
	}

	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Indexed %s: %d chunks", doc.FilePath, len(chunks))
	return doc, nil
}

// matchesTags reports whether chunk metadata carries every wanted tag.
func matchesTags(meta map[string]string, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	docTags := strings.Split(meta["tags"], ",")
	for _, want := range tags {
		if !contains(docTags, want) {
			return false
		}
	}
	return true
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func clampRelevance(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
