// ABOUTME: SQLite-backed store for intent metadata and the decision archive
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harper/intent-curator/internal/models"
	_ "modernc.org/sqlite"
)

// LocalStore persists intent metadata and decision entries in SQLite
type LocalStore struct {
	db   *sql.DB
	path string
}

// DefaultDataDir returns the XDG data directory for the curator.
// Respects XDG_DATA_HOME environment variable override for testing.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "intent-curator")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "curator.db")
}

// OpenLocal opens or creates a SQLite database at the given path
func OpenLocal(path string) (*LocalStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &LocalStore{db: db, path: path}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// OpenLocalInMemory creates an in-memory store (for testing)
func OpenLocalInMemory() (*LocalStore, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	store := &LocalStore{db: db, path: ":memory:"}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *LocalStore) initSchema() error {
	_, err := s.db.Exec(Schema)
	return err
}

// Close closes the database connection
func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *LocalStore) Path() string {
	return s.path
}

// Get retrieves metadata for one intent, nil when no record exists
func (s *LocalStore) Get(displayName string) (*models.IntentMetadata, error) {
	var (
		meta     models.IntentMetadata
		keywords sql.NullString
	)
	err := s.db.QueryRow(`
		SELECT purpose, scope, keywords, created_at, updated_at
		FROM intent_metadata
		WHERE display_name = ?
	`, displayName).Scan(&meta.Purpose, &meta.Scope, &keywords, &meta.CreatedAt, &meta.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if keywords.Valid && keywords.String != "" {
		if err := json.Unmarshal([]byte(keywords.String), &meta.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for %q: %w", displayName, err)
		}
	}
	return &meta, nil
}

// Put upserts metadata for one intent
func (s *LocalStore) Put(displayName string, meta models.IntentMetadata) error {
	keywords, err := json.Marshal(meta.Keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO intent_metadata (display_name, purpose, scope, keywords, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(display_name) DO UPDATE SET
			purpose = excluded.purpose,
			scope = excluded.scope,
			keywords = excluded.keywords,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, displayName, meta.Purpose, meta.Scope, string(keywords), meta.CreatedAt, meta.UpdatedAt)
	return err
}

// All returns every metadata record keyed by display name
func (s *LocalStore) All() (map[string]models.IntentMetadata, error) {
	rows, err := s.db.Query(`
		SELECT display_name, purpose, scope, keywords, created_at, updated_at
		FROM intent_metadata
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]models.IntentMetadata)
	for rows.Next() {
		var (
			name     string
			meta     models.IntentMetadata
			keywords sql.NullString
		)
		if err := rows.Scan(&name, &meta.Purpose, &meta.Scope, &keywords, &meta.CreatedAt, &meta.UpdatedAt); err != nil {
			return nil, err
		}
		if keywords.Valid && keywords.String != "" {
			if err := json.Unmarshal([]byte(keywords.String), &meta.Keywords); err != nil {
				return nil, fmt.Errorf("decoding keywords for %q: %w", name, err)
			}
		}
		out[name] = meta
	}
	return out, rows.Err()
}

// AppendDecision archives one pipeline decision
func (s *LocalStore) AppendDecision(entry models.DecisionLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO decisions (id, created_at, session_id, message, nlu_intent, nlu_confidence, reusability_score, action, blocked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.SessionID, entry.Message, entry.NluIntent,
		entry.NluConfidence, entry.ReusabilityScore, entry.Action, entry.Blocked)
	return err
}

// RecentDecisions returns up to limit archived decisions, newest first
func (s *LocalStore) RecentDecisions(limit int) ([]models.DecisionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, created_at, session_id, message, nlu_intent, nlu_confidence, reusability_score, action, blocked
		FROM decisions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DecisionLogEntry
	for rows.Next() {
		var e models.DecisionLogEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.SessionID, &e.Message, &e.NluIntent,
			&e.NluConfidence, &e.ReusabilityScore, &e.Action, &e.Blocked); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
