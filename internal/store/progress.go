package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo.
type progressRepo struct {
	s *Store
}

func (r *progressRepo) UpsertCompletion(ctx context.Context, c ModuleCompletion) error {
	at := c.CompletedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	query, args := r.s.builder().Insert(ModuleProgressTable.Name).
		Columns("user_id", "module_id", "completed", "completed_at").
		Values(c.UserID, c.ModuleID, true, at).
		OnConflict(
			entsql.ConflictColumns("user_id", "module_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert module completion: %w", err)
	}
	return nil
}

func (r *progressRepo) CompletedModules(ctx context.Context, userID string) ([]string, error) {
	b := r.s.builder()
	t := b.Table(ModuleProgressTable.Name)
	query, args := b.Select(t.C("module_id")).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("user_id"), userID),
			entsql.EQ(t.C("completed"), true),
		)).
		OrderBy(t.C("id")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completed modules: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan module id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
