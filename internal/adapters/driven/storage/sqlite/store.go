package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the person and minutes store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sagebase/data/sagebase.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sagebase", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sagebase.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// PersonStore returns a PersonStore interface backed by this store.
func (s *Store) PersonStore() driven.PersonStore {
	return &personStore{store: s}
}

// MinutesStore returns a MinutesStore interface backed by this store.
func (s *Store) MinutesStore() driven.MinutesStore {
	return &minutesStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "0001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// ==================== Person Store ====================

// personStore implements driven.PersonStore.
type personStore struct {
	store *Store
}

var _ driven.PersonStore = (*personStore)(nil)

// Save stores or updates a person. Updates keep the original rowid, so
// insertion order stays stable across edits.
func (s *personStore) Save(ctx context.Context, person domain.Person) error {
	if person.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO persons (id, name, affiliation, role)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			affiliation = excluded.affiliation,
			role = excluded.role
	`, person.ID, person.Name, person.Affiliation, person.Role)

	if err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}

// Get retrieves a person by ID.
func (s *personStore) Get(ctx context.Context, id string) (domain.Person, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, affiliation, role
		FROM persons WHERE id = ?
	`, id)

	var person domain.Person
	if err := row.Scan(&person.ID, &person.Name, &person.Affiliation, &person.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Person{}, domain.ErrNotFound
		}
		return domain.Person{}, fmt.Errorf("scanning person: %w", err)
	}

	return person, nil
}

// List returns all persons in insertion order.
func (s *personStore) List(ctx context.Context) ([]domain.Person, error) {
	return s.queryPersons(ctx, `
		SELECT id, name, affiliation, role
		FROM persons ORDER BY rowid
	`)
}

// ListByAffiliation returns persons with the given affiliation, in insertion order.
func (s *personStore) ListByAffiliation(ctx context.Context, affiliation string) ([]domain.Person, error) {
	return s.queryPersons(ctx, `
		SELECT id, name, affiliation, role
		FROM persons WHERE affiliation = ? ORDER BY rowid
	`, affiliation)
}

// Delete removes a person.
func (s *personStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	return nil
}

// queryPersons runs a person query and scans the rows.
func (s *personStore) queryPersons(ctx context.Context, query string, args ...any) ([]domain.Person, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	var persons []domain.Person //nolint:prealloc // size unknown from query
	for rows.Next() {
		var person domain.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.Affiliation, &person.Role); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		persons = append(persons, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating persons: %w", err)
	}

	return persons, nil
}

// ==================== Minutes Store ====================

// minutesStore implements driven.MinutesStore.
type minutesStore struct {
	store *Store
}

var _ driven.MinutesStore = (*minutesStore)(nil)

// SaveDocument stores a processed document record.
func (s *minutesStore) SaveDocument(ctx context.Context, doc domain.RawDocument) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, text, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			text = excluded.text
	`, doc.ID, doc.SourceID, doc.Text, createdAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveUtterances stores the extracted utterances of a document.
// The batch is written in one transaction so a failed save never leaves a
// document with half its utterances.
func (s *minutesStore) SaveUtterances(ctx context.Context, utterances []domain.Utterance) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, u := range utterances {
		if u.ID == "" {
			return domain.ErrInvalidInput
		}

		var subChapter sql.NullInt64
		if u.SubChapterNumber != nil {
			subChapter = sql.NullInt64{Int64: int64(*u.SubChapterNumber), Valid: true}
		}
		var resolved sql.NullString
		if u.ResolvedPersonID != nil {
			resolved = sql.NullString{String: *u.ResolvedPersonID, Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO utterances (id, document_id, chapter_number, sub_chapter_number,
				speaker, text, turn_order, sequence, resolved_person_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				chapter_number = excluded.chapter_number,
				sub_chapter_number = excluded.sub_chapter_number,
				speaker = excluded.speaker,
				text = excluded.text,
				turn_order = excluded.turn_order,
				sequence = excluded.sequence
		`, u.ID, u.DocumentID, u.ChapterNumber, subChapter,
			u.Speaker, u.Text, u.Order, u.Sequence, resolved)
		if err != nil {
			return fmt.Errorf("saving utterance %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing utterances: %w", err)
	}
	return nil
}

// ApplyResolution records a resolution decision for one utterance.
// Unmatched results and repeat applications leave the row unchanged.
func (s *minutesStore) ApplyResolution(ctx context.Context, utteranceID string, result domain.MatchResult) error {
	if !result.Matched || result.PersonID == "" {
		return s.ensureUtteranceExists(ctx, utteranceID)
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE utterances SET resolved_person_id = ? WHERE id = ?
	`, result.PersonID, utteranceID)
	if err != nil {
		return fmt.Errorf("applying resolution: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking resolution result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListUtterances returns a document's utterances in sequence order.
func (s *minutesStore) ListUtterances(ctx context.Context, documentID string) ([]domain.Utterance, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, chapter_number, sub_chapter_number,
			speaker, text, turn_order, sequence, resolved_person_id
		FROM utterances WHERE document_id = ? ORDER BY sequence
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying utterances: %w", err)
	}
	defer rows.Close()

	var utterances []domain.Utterance //nolint:prealloc // size unknown from query
	for rows.Next() {
		var u domain.Utterance
		var subChapter sql.NullInt64
		var resolved sql.NullString
		if err := rows.Scan(&u.ID, &u.DocumentID, &u.ChapterNumber, &subChapter,
			&u.Speaker, &u.Text, &u.Order, &u.Sequence, &resolved); err != nil {
			return nil, fmt.Errorf("scanning utterance: %w", err)
		}

		if subChapter.Valid {
			sub := int(subChapter.Int64)
			u.SubChapterNumber = &sub
		}
		if resolved.Valid {
			personID := resolved.String
			u.ResolvedPersonID = &personID
		}
		utterances = append(utterances, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating utterances: %w", err)
	}

	return utterances, nil
}

// ensureUtteranceExists reports ErrNotFound for unknown utterance IDs.
func (s *minutesStore) ensureUtteranceExists(ctx context.Context, utteranceID string) error {
	var one int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM utterances WHERE id = ?", utteranceID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking utterance: %w", err)
	}
	return nil
}
