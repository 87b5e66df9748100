package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter hands out one increasing sequence number shared by every
// journal table, so events of different kinds can be merged into a single
// timeline in the order they happened. The journal_sequence row is created
// by migrate.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	if _, err := db.Exec(`INSERT OR IGNORE INTO journal_sequence (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed journal sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	row := sc.db.QueryRowContext(ctx, `UPDATE journal_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// insert assigns the next sequence number and runs an INSERT whose first
// placeholder is the sequence.
func (sc *sequenceCounter) insert(ctx context.Context, what, query string, args ...any) error {
	seq, err := sc.Next(ctx)
	if err != nil {
		return err
	}
	if _, err := sc.db.ExecContext(ctx, query, append([]any{seq}, args...)...); err != nil {
		return fmt.Errorf("save %s event: %w", what, err)
	}
	return nil
}
