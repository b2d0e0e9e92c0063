// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// SQLiteStore implements KV and EntryRepository using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	retry  RetryConfig
	logger zerolog.Logger
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithStoreLogger sets the logger used to report unreadable columns.
func WithStoreLogger(logger zerolog.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		s.logger = logger.With().Str("component", "sqlite").Logger()
	}
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, retry: DefaultRetryConfig(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Keyed checklist state: selections, cached evaluations, emotional history
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Journal entries
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		pair TEXT NOT NULL,
		date DATETIME NOT NULL,
		session TEXT,
		type TEXT,
		time TEXT,
		notes TEXT,
		images TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entries_pair ON entries(pair);
	CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// KV Methods
// ============================================================================

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreError("get", key, err)
	}
	return value, true, nil
}

// Put replaces the value stored under key.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.exec(ctx, `
		INSERT OR REPLACE INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now())
	if err != nil {
		return errors.NewStoreError("put", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.exec(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.NewStoreError("delete", key, err)
	}
	return nil
}

// Keys lists keys starting with prefix.
func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key ASC
	`, len(prefix), prefix)
	if err != nil {
		return nil, errors.NewStoreError("keys", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.NewStoreError("keys", prefix, err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// ============================================================================
// Entry Methods
// ============================================================================

// SaveEntry inserts or replaces a journal entry.
func (s *SQLiteStore) SaveEntry(ctx context.Context, entry *models.JournalEntry) error {
	if entry.ID == "" {
		return errors.NewValidationError("id", entry.ID, "entry id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	images, err := json.Marshal(entry.Images)
	if err != nil {
		return errors.NewStoreError("save entry", entry.ID, err)
	}

	_, err = s.exec(ctx, `
		INSERT OR REPLACE INTO entries (id, pair, date, session, type, time, notes, images, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Pair, entry.Date.UTC(), string(entry.Session), entry.Type, entry.Time, entry.Notes, string(images), entry.CreatedAt.UTC())
	if err != nil {
		return errors.NewStoreError("save entry", entry.ID, err)
	}
	return nil
}

// GetEntry retrieves a journal entry by id.
func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, pair, date, session, type, time, notes, images, created_at
		FROM entries WHERE id = ?
	`, id)

	e, err := s.scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrEntryNotFound, "entry %s", id)
	}
	if err != nil {
		return nil, errors.NewStoreError("get entry", id, err)
	}
	return e, nil
}

// ListEntries retrieves journal entries matching filter.
func (s *SQLiteStore) ListEntries(ctx context.Context, filter EntryFilter) ([]models.JournalEntry, error) {
	query := "SELECT id, pair, date, session, type, time, notes, images, created_at FROM entries WHERE 1=1"
	args := []interface{}{}

	if filter.Pair != "" {
		query += " AND pair = ?"
		args = append(args, filter.Pair)
	}
	if filter.Session != "" {
		query += " AND session = ?"
		args = append(args, string(filter.Session))
	}
	if !filter.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.StartDate.UTC())
	}
	if !filter.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.EndDate.UTC())
	}

	switch filter.Sort {
	case SortDateAsc:
		query += " ORDER BY date ASC, id ASC"
	case SortPairAsc:
		query += " ORDER BY pair ASC, date DESC, id DESC"
	case SortPairDesc:
		query += " ORDER BY pair DESC, date DESC, id DESC"
	default:
		query += " ORDER BY date DESC, id DESC"
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("list entries", "", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		e, err := s.scanEntry(rows)
		if err != nil {
			return nil, errors.NewStoreError("list entries", "", err)
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// DeleteEntry removes a journal entry.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.exec(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return errors.NewStoreError("delete entry", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewStoreError("delete entry", id, err)
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrEntryNotFound, "entry %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry reads one entries row. An unreadable images column is logged and
// leaves the entry without images.
func (s *SQLiteStore) scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var e models.JournalEntry
	var session, typ, tm, notes, images sql.NullString
	if err := row.Scan(&e.ID, &e.Pair, &e.Date, &session, &typ, &tm, &notes, &images, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Session = models.Session(session.String)
	e.Type = typ.String
	e.Time = tm.String
	e.Notes = notes.String
	if images.Valid && strings.TrimSpace(images.String) != "" {
		if err := json.Unmarshal([]byte(images.String), &e.Images); err != nil {
			s.logger.Warn().Err(err).Str("entry_id", e.ID).Msg("Malformed images column, ignoring")
			e.Images = nil
		}
	}
	return &e, nil
}
