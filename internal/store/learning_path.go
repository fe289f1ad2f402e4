package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// learningPathRepo implements LearningPathRepo.
type learningPathRepo struct {
	s *Store
}

func (r *learningPathRepo) SaveLearningPath(ctx context.Context, lp *LearningPath) error {
	strengths, err := marshalStrings(lp.Strengths)
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	weaknesses, err := marshalStrings(lp.Weaknesses)
	if err != nil {
		return fmt.Errorf("marshal weaknesses: %w", err)
	}
	modules := lp.Modules
	if modules == nil {
		modules = []ModuleRecord{}
	}
	path, err := json.Marshal(modules)
	if err != nil {
		return fmt.Errorf("marshal modules: %w", err)
	}

	createdAt := lp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args := r.s.builder().Insert(LearningPathsTable.Name).
		Columns("attempt_id", "user_id", "topic", "strengths", "weaknesses", "learning_path", "overall_score", "created_at").
		Values(lp.AttemptID, lp.UserID, lp.Topic, strengths, weaknesses, string(path), lp.OverallScore, createdAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save learning path: %w", err)
	}
	return nil
}

func (r *learningPathRepo) LatestLearningPath(ctx context.Context, userID, topic string) (*LearningPath, error) {
	b := r.s.builder()
	t := b.Table(LearningPathsTable.Name)
	query, args := b.Select(
		t.C("id"), t.C("attempt_id"), t.C("user_id"), t.C("topic"),
		t.C("strengths"), t.C("weaknesses"), t.C("learning_path"),
		t.C("overall_score"), t.C("created_at"),
	).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("user_id"), userID),
			entsql.EQ(t.C("topic"), topic),
		)).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id"))).
		Limit(1).
		Query()

	var (
		lp                          LearningPath
		strengths, weaknesses, path []byte
	)
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(
		&lp.ID, &lp.AttemptID, &lp.UserID, &lp.Topic,
		&strengths, &weaknesses, &path,
		&lp.OverallScore, &lp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest learning path: %w", err)
	}

	if err := json.Unmarshal(strengths, &lp.Strengths); err != nil {
		return nil, fmt.Errorf("unmarshal strengths: %w", err)
	}
	if err := json.Unmarshal(weaknesses, &lp.Weaknesses); err != nil {
		return nil, fmt.Errorf("unmarshal weaknesses: %w", err)
	}
	if err := json.Unmarshal(path, &lp.Modules); err != nil {
		return nil, fmt.Errorf("unmarshal learning path: %w", err)
	}
	return &lp, nil
}

func (r *learningPathRepo) Topics(ctx context.Context, userID string) ([]string, error) {
	b := r.s.builder()
	t := b.Table(LearningPathsTable.Name)
	query, args := b.Select(t.C("topic"), entsql.Max(t.C("id"))).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		GroupBy(t.C("topic")).
		OrderBy(entsql.Desc(entsql.Max(t.C("id")))).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var (
			topic  string
			lastID int64
		)
		if err := rows.Scan(&topic, &lastID); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}
