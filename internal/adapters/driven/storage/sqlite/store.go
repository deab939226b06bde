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

	"github.com/custodia-labs/retrace-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/core/ports/driven"
)

var _ driven.CorpusStore = (*Store)(nil)

// Store is a SQLite-backed corpus store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.retrace/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".retrace", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for better concurrency between search reads and
	// import writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// entityRow is the JSON shape entities are persisted in.
type entityRow struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

func marshalEntities(entities []domain.ExtractedEntity) (string, error) {
	rows := make([]entityRow, len(entities))
	for i, e := range entities {
		rows[i] = entityRow{
			Type:       string(e.Type),
			Value:      e.Value,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Confidence,
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshalling entities: %w", err)
	}
	return string(data), nil
}

func unmarshalEntities(data string) ([]domain.ExtractedEntity, error) {
	var rows []entityRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("unmarshalling entities: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	entities := make([]domain.ExtractedEntity, len(rows))
	for i, r := range rows {
		entities[i] = domain.ExtractedEntity{
			Type:       domain.EntityType(r.Type),
			Value:      r.Value,
			Start:      r.Start,
			End:        r.End,
			Confidence: r.Confidence,
		}
	}
	return entities, nil
}

// SaveDocument stores or updates a document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	entitiesJSON, err := marshalEntities(doc.Entities)
	if err != nil {
		return err
	}
	var signatureJSON sql.NullString
	if doc.VisualSignature != nil {
		data, err := json.Marshal(doc.VisualSignature)
		if err != nil {
			return fmt.Errorf("marshalling visual signature: %w", err)
		}
		signatureJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, extracted_text, captured_at, tags, entities, visual_signature, language, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			extracted_text = excluded.extracted_text,
			captured_at = excluded.captured_at,
			tags = excluded.tags,
			entities = excluded.entities,
			visual_signature = excluded.visual_signature,
			language = excluded.language,
			updated_at = excluded.updated_at
	`, doc.ID, doc.ExtractedText, doc.Timestamp.UTC(), string(tagsJSON),
		entitiesJSON, signatureJSON, doc.Language, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, extracted_text, captured_at, tags, entities, visual_signature, language
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by ID.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, extracted_text, captured_at, tags, entities, visual_signature, language
		FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanDocument.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var capturedAt time.Time
	var tagsJSON, entitiesJSON string
	var signatureJSON sql.NullString
	if err := row.Scan(&doc.ID, &doc.ExtractedText, &capturedAt,
		&tagsJSON, &entitiesJSON, &signatureJSON, &doc.Language); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Timestamp = capturedAt.UTC()
	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	entities, err := unmarshalEntities(entitiesJSON)
	if err != nil {
		return nil, err
	}
	doc.Entities = entities
	if signatureJSON.Valid {
		if err := json.Unmarshal([]byte(signatureJSON.String), &doc.VisualSignature); err != nil {
			return nil, fmt.Errorf("unmarshalling visual signature: %w", err)
		}
	}
	return &doc, nil
}
