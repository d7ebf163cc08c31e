package journal

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// NewSQLiteStore opens (and if needed creates) the journal database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	// Ensure directory exists
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, dbError(err, "failed to create journal directory").WithCode(mdwerror.CodeIOError)
		}
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "failed to open journal")
	}
	if cfg.Path == ":memory:" {
		// Every connection would get its own in-memory database
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize journal schema")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		outcome TEXT NOT NULL,
		message TEXT NOT NULL,
		token_count INTEGER NOT NULL,
		symbols INTEGER NOT NULL,
		source_hash TEXT NOT NULL,
		source TEXT,
		duration_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run. Missing IDs and timestamps are filled in.
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, timestamp, outcome, message, token_count, symbols, source_hash, source, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp.UTC(), entry.Outcome, entry.Message, entry.TokenCount,
		entry.Symbols, entry.SourceHash, entry.Source, int64(entry.Duration))
	if err != nil {
		return dbError(err, "failed to insert run").WithDetail("run_id", entry.ID)
	}
	return nil
}

// Recent lists runs, newest first
func (s *SQLiteStore) Recent(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, outcome, message, token_count, symbols, source_hash, source, duration_ns FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, filter.Outcome)
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read runs")
	}
	return entries, nil
}

// Get returns a single run by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, outcome, message, token_count, symbols, source_hash, source, duration_ns
		FROM runs WHERE id = ?
	`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return entry, nil
}

// Stats counts runs by outcome
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM runs GROUP BY outcome`)
	if err != nil {
		return nil, dbError(err, "failed to count runs")
	}
	defer rows.Close()

	stats := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, dbError(err, "failed to scan run count")
		}
		stats[outcome] = count
	}
	return stats, rows.Err()
}

// Prune removes runs older than the specified duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune runs")
	}
	return result.RowsAffected()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var source sql.NullString
	var durationNS int64

	if err := row.Scan(&entry.ID, &entry.Timestamp, &entry.Outcome, &entry.Message,
		&entry.TokenCount, &entry.Symbols, &entry.SourceHash, &source, &durationNS); err != nil {
		return nil, dbError(err, "failed to scan run")
	}
	entry.Source = source.String
	entry.Duration = time.Duration(durationNS)
	return &entry, nil
}

func dbError(err error, message string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).WithCode(mdwerror.CodeDatabaseError)
}

func notFound(id string) error {
	return mdwerror.New("run not found: " + id).
		WithCode(mdwerror.CodeNotFound).
		WithDetail("run_id", id)
}
