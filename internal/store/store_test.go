package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenDriver_Unknown(t *testing.T) {
	_, err := OpenDriver("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"diagnostic_questions", "user_answers", "learning_paths", "module_progress", "llm_request_events", "event_sequences"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.llmSeq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	// Re-seeding must not reset the counter.
	sc, err := newSequence(ctx, s.DB(), s.builder(), streamLLMRequests)
	require.NoError(t, err)
	next, err := sc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), next)

	// Streams count independently.
	other, err := newSequence(ctx, s.DB(), s.builder(), "other")
	require.NoError(t, err)
	first, err := other.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
}

func TestDiagnosticRepo_SaveQuestionsAndAnswers(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosticRepo()
	ctx := context.Background()
	a := Attempt{ID: "att-1", UserID: "u1", Topic: "Go"}

	err := repo.SaveQuestions(ctx, a, []QuestionRecord{
		{QuestionText: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a", Difficulty: "Easy"},
		{QuestionText: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "b", Difficulty: "Hard"},
	})
	require.NoError(t, err)

	err = repo.SaveAnswers(ctx, a, []AnswerRecord{
		{QuestionText: "Q1", SelectedAnswer: "a", IsCorrect: true},
		{QuestionText: "Q2", SelectedAnswer: "c", IsCorrect: false},
	})
	require.NoError(t, err)

	var questions, correct int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM diagnostic_questions WHERE attempt_id = ?", "att-1").Scan(&questions))
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM user_answers WHERE attempt_id = ? AND is_correct", "att-1").Scan(&correct))
	assert.Equal(t, 2, questions)
	assert.Equal(t, 1, correct)

	var opts string
	require.NoError(t, s.DB().QueryRow("SELECT options FROM diagnostic_questions WHERE question_text = ?", "Q1").Scan(&opts))
	assert.JSONEq(t, `["a","b","c","d"]`, opts)
}

func TestDiagnosticRepo_EmptyIsNoop(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosticRepo()
	ctx := context.Background()

	require.NoError(t, repo.SaveQuestions(ctx, Attempt{ID: "x"}, nil))
	require.NoError(t, repo.SaveAnswers(ctx, Attempt{ID: "x"}, nil))
}

func TestLearningPathRepo_LatestIsNilWhenMissing(t *testing.T) {
	s := openTestStore(t)

	lp, err := s.LearningPathRepo().LatestLearningPath(context.Background(), "u1", "Go")
	require.NoError(t, err)
	assert.Nil(t, lp)
}

func TestLearningPathRepo_LatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.LearningPathRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.SaveLearningPath(ctx, &LearningPath{
			AttemptID:    fmt.Sprintf("att-%d", i),
			UserID:       "u1",
			Topic:        "Go",
			Strengths:    []string{"Syntax"},
			Weaknesses:   []string{"Concurrency"},
			Modules:      []ModuleRecord{{Step: fmt.Sprintf("Step %d", i), Description: "d"}},
			OverallScore: 10 * i,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	// Another user and another topic must not leak in.
	require.NoError(t, repo.SaveLearningPath(ctx, &LearningPath{UserID: "u2", Topic: "Go", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.SaveLearningPath(ctx, &LearningPath{UserID: "u1", Topic: "Rust", CreatedAt: base.Add(time.Hour)}))

	lp, err := repo.LatestLearningPath(ctx, "u1", "Go")
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, "att-2", lp.AttemptID)
	assert.Equal(t, 20, lp.OverallScore)
	assert.Equal(t, []string{"Syntax"}, lp.Strengths)
	assert.Equal(t, []string{"Concurrency"}, lp.Weaknesses)
	assert.Equal(t, []ModuleRecord{{Step: "Step 2", Description: "d"}}, lp.Modules)
	assert.True(t, lp.CreatedAt.Equal(base.Add(2*time.Minute)), "created_at = %v", lp.CreatedAt)
}

func TestLearningPathRepo_SameTimestampUsesInsertOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.LearningPathRepo()
	ctx := context.Background()

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SaveLearningPath(ctx, &LearningPath{AttemptID: "first", UserID: "u1", Topic: "Go", CreatedAt: at}))
	require.NoError(t, repo.SaveLearningPath(ctx, &LearningPath{AttemptID: "second", UserID: "u1", Topic: "Go", CreatedAt: at}))

	lp, err := repo.LatestLearningPath(ctx, "u1", "Go")
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, "second", lp.AttemptID)
	assert.Empty(t, lp.Modules)
}

func TestLearningPathRepo_Topics(t *testing.T) {
	s := openTestStore(t)
	repo := s.LearningPathRepo()
	ctx := context.Background()

	for _, topic := range []string{"Go", "Rust", "Go"} {
		require.NoError(t, repo.SaveLearningPath(ctx, &LearningPath{UserID: "u1", Topic: topic}))
	}
	require.NoError(t, repo.SaveLearningPath(ctx, &LearningPath{UserID: "u2", Topic: "SQL"}))

	topics, err := repo.Topics(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, topics)
}

func TestProgressRepo_UpsertIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.UpsertCompletion(ctx, ModuleCompletion{UserID: "u1", ModuleID: "Intro"}))
	}
	require.NoError(t, repo.UpsertCompletion(ctx, ModuleCompletion{UserID: "u1", ModuleID: "Loops"}))
	require.NoError(t, repo.UpsertCompletion(ctx, ModuleCompletion{UserID: "u2", ModuleID: "Intro"}))

	var rows int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM module_progress WHERE user_id = ?", "u1").Scan(&rows))
	assert.Equal(t, 2, rows)

	ids, err := repo.CompletedModules(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Loops"}, ids)

	ids, err = repo.CompletedModules(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "diagnostic-questions", Topic: "Go", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "diagnostic-analysis", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "diagnostic-questions", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Sequence, "newest first")
	assert.Equal(t, "boom", all[0].ErrorMessage)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "diagnostic-questions"})
	require.NoError(t, err)
	assert.Len(t, byPurpose, 2)

	byTopic, err := repo.QueryLLMEvents(ctx, QueryOpts{Topic: "Go"})
	require.NoError(t, err)
	require.Len(t, byTopic, 1)
	assert.Equal(t, "Go", byTopic[0].Topic)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 1})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	first, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "req", first.RequestBody)
	assert.Equal(t, "resp", first.ResponseBody)
	assert.True(t, first.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "m1", Purpose: "a", InputTokens: 10, OutputTokens: 1, LatencyMs: 100},
		{Model: "m1", Purpose: "a", InputTokens: 20, OutputTokens: 2, LatencyMs: 300},
		{Model: "m2", Purpose: "b", InputTokens: 5, OutputTokens: 5, LatencyMs: 50},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	stats, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, LLMUsageStats{Purpose: "a", Calls: 2, InputTokens: 30, OutputTokens: 3, AvgLatencyMs: 200}, stats[0])

	models, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, LLMModelUsage{Model: "m2", Calls: 1, InputTokens: 5, OutputTokens: 5}, models[1])
}
