package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo. Events are numbered by the store's
// llm_requests sequence.
type eventRepo struct {
	s *Store
}

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "topic",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.s.llmSeq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.s.builder().Insert(LLMRequestEventsTable.Name).
		Columns(llmEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.Topic,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	b := r.s.builder()
	t := b.Table(LLMRequestEventsTable.Name)

	sel := b.Select(columnsOf(t, llmEventColumns)...).From(t)

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("timestamp"), opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("timestamp"), opts.To.UTC()))
	}
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ(t.C("purpose"), opts.Purpose))
	}
	if opts.Topic != "" {
		preds = append(preds, entsql.EQ(t.C("topic"), opts.Topic))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	b := r.s.builder()
	t := b.Table(LLMRequestEventsTable.Name)
	query, args := b.Select(columnsOf(t, llmEventColumns)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	rec, err := scanLLMEvent(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	b := r.s.builder()
	t := b.Table(LLMRequestEventsTable.Name)
	query, args := b.Select(
		t.C("purpose"),
		entsql.Count("*"),
		entsql.Sum(t.C("input_tokens")),
		entsql.Sum(t.C("output_tokens")),
		entsql.Sum(t.C("latency_ms")),
	).
		From(t).
		GroupBy(t.C("purpose")).
		OrderBy(t.C("purpose")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			st           LLMUsageStats
			totalLatency int64
		)
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.InputTokens, &st.OutputTokens, &totalLatency); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		if st.Calls > 0 {
			st.AvgLatencyMs = totalLatency / int64(st.Calls)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	b := r.s.builder()
	t := b.Table(LLMRequestEventsTable.Name)
	query, args := b.Select(
		t.C("model"),
		entsql.Count("*"),
		entsql.Sum(t.C("input_tokens")),
		entsql.Sum(t.C("output_tokens")),
	).
		From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var mu LLMModelUsage
		if err := rows.Scan(&mu.Model, &mu.Calls, &mu.InputTokens, &mu.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMRequestEventRecord, error) {
	var (
		rec                          LLMRequestEventRecord
		topic, errMsg, reqBody, resp sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.Sequence, &rec.Timestamp,
		&rec.Provider, &rec.Model, &rec.Purpose, &topic,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success,
		&errMsg, &reqBody, &resp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Topic = topic.String
	rec.ErrorMessage = errMsg.String
	rec.RequestBody = reqBody.String
	rec.ResponseBody = resp.String
	return &rec, nil
}

func columnsOf(t *entsql.SelectTable, names []string) []string {
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = t.C(n)
	}
	return cols
}
