package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the journal database and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the journal tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// OpenMemory opens a private in-memory journal. Nothing outlives Close.
func OpenMemory() (*Store, error) {
	s, err := Open("file:cogniquest-" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	// An in-memory database lives only as long as a connection to it, and
	// shared-cache mode locks whole tables, so keep exactly one.
	s.db.SetMaxOpenConns(1)
	s.db.SetMaxIdleConns(1)
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// QueryRepo returns a QueryRepo backed by this store.
func (s *Store) QueryRepo() QueryRepo {
	return &queryRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS journal_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS session_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		question_id INTEGER NOT NULL DEFAULT 0,
		question_index INTEGER NOT NULL DEFAULT 0,
		direction TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		at_ns INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS answer_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		question_id INTEGER NOT NULL,
		question_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		at_ns INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS timer_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		question_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		epoch INTEGER NOT NULL,
		remaining_ms INTEGER NOT NULL,
		at_ns INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS narration_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		question_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		token INTEGER NOT NULL,
		utterances INTEGER NOT NULL DEFAULT 0,
		at_ns INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS llm_request_events (
		sequence INTEGER PRIMARY KEY,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		at_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id, sequence);
	CREATE INDEX IF NOT EXISTS idx_answer_events_session ON answer_events(session_id, sequence);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}
