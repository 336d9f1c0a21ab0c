// Package chroma implements the vector store port against a Chroma
// server's REST API. Embeddings are computed client-side so the server
// needs no embedding function configured.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// collectionName is the single collection all documents live in.
const collectionName = "nexus_documents"

// Embedder is the slice of the LLM client this store needs.
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

// Store talks to a Chroma server over HTTP.
type Store struct {
	client       *http.Client
	baseURL      string
	embedder     Embedder
	model        string
	collectionID string
}

// New creates a Chroma-backed vector store.
func New(baseURL string, embedder Embedder, model string) *Store {
	return &Store{
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  baseURL,
		embedder: embedder,
		model:    model,
	}
}

// NewWithClient creates a store with a custom HTTP client, used in
// tests.
func NewWithClient(client *http.Client, baseURL string, embedder Embedder, model string) *Store {
	return &Store{client: client, baseURL: baseURL, embedder: embedder, model: model}
}

// collection resolves (creating if needed) the collection ID.
func (s *Store) collection(ctx context.Context) (string, error) {
	if s.collectionID != "" {
		return s.collectionID, nil
	}

	body := map[string]any{
		"name":          collectionName,
		"get_or_create": true,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := s.post(ctx, "/api/v1/collections", body, &resp); err != nil {
		return "", fmt.Errorf("get or create collection: %w", err)
	}
	s.collectionID = resp.ID
	logger.Debug("Chroma collection %s resolved to %s", collectionName, resp.ID)
	return resp.ID, nil
}

// Add upserts entries into the collection.
func (s *Store) Add(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(entries))
	documents := make([]string, 0, len(entries))
	metadatas := make([]map[string]string, 0, len(entries))
	embeddings := make([][]float32, 0, len(entries))

	for _, e := range entries {
		vec, err := s.embedder.Embed(ctx, s.model, e.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", e.ID, err)
		}
		ids = append(ids, e.ID)
		documents = append(documents, e.Text)
		metadatas = append(metadatas, e.Metadata)
		embeddings = append(embeddings, vec)
	}

	body := map[string]any{
		"ids":        ids,
		"documents":  documents,
		"metadatas":  metadatas,
		"embeddings": embeddings,
	}
	return s.post(ctx, "/api/v1/collections/"+coll+"/upsert", body, nil)
}

// Query returns up to k nearest entries to the query text.
func (s *Store) Query(ctx context.Context, text string, k int, where driven.Where) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive: %w", domain.ErrInvalidInput)
	}
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, s.model, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	body := map[string]any{
		"query_embeddings": [][]float32{vec},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if len(where) > 0 {
		body["where"] = whereClause(where)
	}

	var resp struct {
		IDs       [][]string            `json:"ids"`
		Documents [][]string            `json:"documents"`
		Metadatas [][]map[string]string `json:"metadatas"`
		Distances [][]float64           `json:"distances"`
	}
	if err := s.post(ctx, "/api/v1/collections/"+coll+"/query", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		hit := driven.VectorHit{ID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			hit.Text = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			hit.Distance = resp.Distances[0][i]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DeleteWhere removes all entries whose metadata matches where.
func (s *Store) DeleteWhere(ctx context.Context, where driven.Where) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}
	body := map[string]any{"where": whereClause(where)}
	return s.post(ctx, "/api/v1/collections/"+coll+"/delete", body, nil)
}

// Count reports the number of entries in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/collections/"+coll+"/count", nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("chroma count: %w", domain.ErrVectorIndexUnavailable)
	}
	defer resp.Body.Close()

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// whereClause renders a filter as Chroma where syntax: exact match for
// single values, $in for value lists, $and across keys.
func whereClause(where driven.Where) map[string]any {
	if len(where) == 1 {
		for k, vals := range where {
			return map[string]any{k: condition(vals)}
		}
	}
	conditions := make([]map[string]any, 0, len(where))
	for k, vals := range where {
		conditions = append(conditions, map[string]any{k: condition(vals)})
	}
	return map[string]any{"$and": conditions}
}

func condition(vals []string) any {
	if len(vals) == 1 {
		return vals[0]
	}
	return map[string]any{"$in": vals}
}

func (s *Store) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chroma request %s: %w", path, domain.ErrVectorIndexUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chroma %s returned %d: %s: %w", path, resp.StatusCode, detail, domain.ErrVectorIndexUnavailable)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
