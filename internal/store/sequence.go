package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// Named event streams. Each stream numbers its events 1, 2, 3, ...
const streamLLMRequests = "llm_requests"

// sequence allocates monotonic numbers for one event stream. Numbers
// survive restarts because the counter row lives next to the events.
type sequence struct {
	mu     sync.Mutex
	db     *sql.DB
	b      *entsql.DialectBuilder
	stream string
}

func newSequence(ctx context.Context, db *sql.DB, b *entsql.DialectBuilder, stream string) (*sequence, error) {
	query, args := b.Insert(EventSequencesTable.Name).
		Columns("stream", "next_val").
		Values(stream, 1).
		OnConflict(entsql.ConflictColumns("stream"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence %q: %w", stream, err)
	}
	return &sequence{db: db, b: b, stream: stream}, nil
}

// Next reserves the next number. The row lock taken by the update keeps
// concurrent writers on other connections from reading the same value.
func (q *sequence) Next(ctx context.Context) (n int64, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	bump, args := q.b.Update(EventSequencesTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("stream", q.stream)).
		Query()
	if _, err = tx.ExecContext(ctx, bump, args...); err != nil {
		return 0, fmt.Errorf("advance %q: %w", q.stream, err)
	}

	read, args := q.b.Select("next_val").
		From(q.b.Table(EventSequencesTable.Name)).
		Where(entsql.EQ("stream", q.stream)).
		Query()
	if err = tx.QueryRowContext(ctx, read, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("read %q: %w", q.stream, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n - 1, nil
}
