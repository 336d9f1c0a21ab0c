package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aurelia-labs/nexus-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to all
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.nexus/data/nexus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".nexus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "nexus.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// UsageLogStore returns a UsageLogStore interface backed by this store.
func (s *Store) UsageLogStore() driven.UsageLogStore {
	return &usageLogStore{store: s}
}

// MemoryStore returns a MemoryStore interface backed by this store.
func (s *Store) MemoryStore() driven.MemoryStore {
	return &memoryStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// MessageStore returns a MessageStore interface backed by this store.
func (s *Store) MessageStore() driven.MessageStore {
	return &messageStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, title, file_path, source_url, file_type, size_bytes,
	fingerprint, tags, chunk_count, indexed_at, is_deleted, metadata, created_at, updated_at`

// Save stores or updates a document.
func (s *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			file_path = excluded.file_path,
			source_url = excluded.source_url,
			file_type = excluded.file_type,
			size_bytes = excluded.size_bytes,
			fingerprint = excluded.fingerprint,
			tags = excluded.tags,
			chunk_count = excluded.chunk_count,
			indexed_at = excluded.indexed_at,
			is_deleted = excluded.is_deleted,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.FilePath, doc.SourceURL, doc.FileType, doc.SizeBytes,
		doc.Fingerprint, string(tagsJSON), doc.ChunkCount, doc.IndexedAt, doc.Deleted,
		string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE id = ? AND is_deleted = 0
	`, id)
	return scanDocument(row)
}

// GetByPath retrieves the non-deleted document indexed from a path.
func (s *documentStore) GetByPath(ctx context.Context, path string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE file_path = ? AND is_deleted = 0
	`, path)
	return scanDocument(row)
}

// GetByFingerprint retrieves the non-deleted document with a content
// fingerprint.
func (s *documentStore) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE fingerprint = ? AND is_deleted = 0
	`, fingerprint)
	return scanDocument(row)
}

// List returns all non-deleted documents.
func (s *documentStore) List(ctx context.Context) ([]*domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE is_deleted = 0 ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete soft-deletes a document.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE documents SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var tagsJSON, metadataJSON string
	var indexedAt sql.NullTime

	err := row.Scan(&doc.ID, &doc.Title, &doc.FilePath, &doc.SourceURL, &doc.FileType,
		&doc.SizeBytes, &doc.Fingerprint, &tagsJSON, &doc.ChunkCount, &indexedAt,
		&doc.Deleted, &metadataJSON, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if indexedAt.Valid {
		t := indexedAt.Time
		doc.IndexedAt = &t
	}
	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return &doc, nil
}

// ==================== Usage Log Store ====================

// usageLogStore implements driven.UsageLogStore.
type usageLogStore struct {
	store *Store
}

var _ driven.UsageLogStore = (*usageLogStore)(nil)

// Append records one routing decision.
func (s *usageLogStore) Append(ctx context.Context, usage *domain.ModelUsage) error {
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO model_usage (id, task_type, auto_model, override_model, was_override, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, usage.ID, usage.Task, usage.AutoModel, usage.OverrideModel, usage.WasOverride,
		usage.Feedback, usage.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending usage: %w", err)
	}
	return nil
}

// RecentOverrides returns up to limit override records, newest first.
func (s *usageLogStore) RecentOverrides(ctx context.Context, task domain.TaskType, limit int) ([]*domain.ModelUsage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, task_type, auto_model, override_model, was_override, feedback, created_at
		FROM model_usage
		WHERE task_type = ? AND was_override = 1
		ORDER BY created_at DESC
		LIMIT ?
	`, task, limit)
	if err != nil {
		return nil, fmt.Errorf("listing overrides: %w", err)
	}
	defer rows.Close()

	var out []*domain.ModelUsage
	for rows.Next() {
		var u domain.ModelUsage
		if err := rows.Scan(&u.ID, &u.Task, &u.AutoModel, &u.OverrideModel,
			&u.WasOverride, &u.Feedback, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// CountOverrides reports how many overrides exist for a task.
func (s *usageLogStore) CountOverrides(ctx context.Context, task domain.TaskType) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM model_usage WHERE task_type = ? AND was_override = 1
	`, task).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting overrides: %w", err)
	}
	return count, nil
}

// SetFeedback records user feedback on a usage record.
func (s *usageLogStore) SetFeedback(ctx context.Context, id, feedback string) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE model_usage SET feedback = ? WHERE id = ?
	`, feedback, id)
	if err != nil {
		return fmt.Errorf("setting feedback: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Memory Store ====================

// memoryStore implements driven.MemoryStore.
type memoryStore struct {
	store *Store
}

var _ driven.MemoryStore = (*memoryStore)(nil)

const memoryColumns = `id, content, memory_type, category, source, session_id,
	confidence, is_deleted, created_at, updated_at`

// Save stores or updates a memory.
func (s *memoryStore) Save(ctx context.Context, mem *domain.Memory) error {
	now := time.Now().UTC()
	if mem.CreatedAt.IsZero() {
		mem.CreatedAt = now
	}
	mem.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO memories (`+memoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			memory_type = excluded.memory_type,
			category = excluded.category,
			source = excluded.source,
			session_id = excluded.session_id,
			confidence = excluded.confidence,
			is_deleted = excluded.is_deleted,
			updated_at = excluded.updated_at
	`, mem.ID, mem.Content, mem.Type, mem.Category, mem.Source, mem.SessionID,
		mem.Confidence, mem.Deleted, mem.CreatedAt, mem.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving memory: %w", err)
	}
	return nil
}

// Get retrieves a memory by ID.
func (s *memoryStore) Get(ctx context.Context, id string) (*domain.Memory, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+memoryColumns+` FROM memories WHERE id = ? AND is_deleted = 0
	`, id)
	return scanMemory(row)
}

// List returns all non-deleted memories, highest confidence first.
func (s *memoryStore) List(ctx context.Context) ([]*domain.Memory, error) {
	return s.query(ctx, `
		SELECT `+memoryColumns+` FROM memories WHERE is_deleted = 0
		ORDER BY confidence DESC, created_at DESC
	`)
}

// ListByType returns non-deleted memories of one type.
func (s *memoryStore) ListByType(ctx context.Context, typ domain.MemoryType) ([]*domain.Memory, error) {
	return s.query(ctx, `
		SELECT `+memoryColumns+` FROM memories WHERE memory_type = ? AND is_deleted = 0
		ORDER BY confidence DESC, created_at DESC
	`, typ)
}

// Search returns non-deleted memories whose content contains the
// query, case-insensitively.
func (s *memoryStore) Search(ctx context.Context, query string) ([]*domain.Memory, error) {
	return s.query(ctx, `
		SELECT `+memoryColumns+` FROM memories
		WHERE content LIKE ? COLLATE NOCASE AND is_deleted = 0
		ORDER BY confidence DESC, created_at DESC
	`, "%"+query+"%")
}

// Delete soft-deletes a memory.
func (s *memoryStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE memories SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deleting memory: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *memoryStore) query(ctx context.Context, q string, args ...any) ([]*domain.Memory, error) {
	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying memories: %w", err)
	}
	defer rows.Close()

	var out []*domain.Memory
	for rows.Next() {
		mem, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mem)
	}
	return out, rows.Err()
}

func scanMemory(row scanner) (*domain.Memory, error) {
	var mem domain.Memory
	err := row.Scan(&mem.ID, &mem.Content, &mem.Type, &mem.Category, &mem.Source,
		&mem.SessionID, &mem.Confidence, &mem.Deleted, &mem.CreatedAt, &mem.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning memory: %w", err)
	}
	return &mem, nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save stores or updates a session.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			is_archived = excluded.is_archived,
			updated_at = excluded.updated_at
	`, session.ID, session.Title, session.Archived, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, is_archived, created_at, updated_at FROM sessions WHERE id = ?
	`, id)

	var session domain.Session
	err := row.Scan(&session.ID, &session.Title, &session.Archived,
		&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &session, nil
}

// List returns all sessions, most recently updated first.
func (s *sessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, is_archived, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.Title, &session.Archived,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, &session)
	}
	return out, rows.Err()
}

// Delete removes a session and, via cascade, its messages.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Message Store ====================

// messageStore implements driven.MessageStore.
type messageStore struct {
	store *Store
}

var _ driven.MessageStore = (*messageStore)(nil)

const messageColumns = `id, session_id, role, content, model, task_type,
	routing_reason, documents_used, created_at`

// Save persists a message.
func (s *messageStore) Save(ctx context.Context, msg *domain.Message) error {
	docsJSON, err := json.Marshal(msg.DocumentsUsed)
	if err != nil {
		return fmt.Errorf("marshalling documents_used: %w", err)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Model, msg.Task,
		msg.RoutingReason, string(docsJSON), msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// ListBySession returns a session's messages oldest first.
func (s *messageStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	return s.query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE session_id = ? ORDER BY created_at ASC
	`, sessionID)
}

// Recent returns up to limit of a session's latest messages, oldest
// first.
func (s *messageStore) Recent(ctx context.Context, sessionID string, limit int) ([]*domain.Message, error) {
	msgs, err := s.query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE session_id = ? ORDER BY created_at DESC LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *messageStore) query(ctx context.Context, q string, args ...any) ([]*domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var msg domain.Message
		var docsJSON string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content,
			&msg.Model, &msg.Task, &msg.RoutingReason, &docsJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if err := json.Unmarshal([]byte(docsJSON), &msg.DocumentsUsed); err != nil {
			return nil, fmt.Errorf("unmarshalling documents_used: %w", err)
		}
		out = append(out, &msg)
	}
	return out, rows.Err()
}
