package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// diagnosticRepo implements DiagnosticRepo.
type diagnosticRepo struct {
	s *Store
}

func (r *diagnosticRepo) SaveQuestions(ctx context.Context, a Attempt, qs []QuestionRecord) error {
	if len(qs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	ins := r.s.builder().Insert(DiagnosticQuestionsTable.Name).
		Columns("attempt_id", "user_id", "topic", "question_text", "options", "correct_answer", "difficulty", "created_at")
	for _, q := range qs {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		ins.Values(a.ID, a.UserID, a.Topic, q.QuestionText, string(opts), q.CorrectAnswer, q.Difficulty, now)
	}

	query, args := ins.Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	return nil
}

func (r *diagnosticRepo) SaveAnswers(ctx context.Context, a Attempt, answers []AnswerRecord) error {
	if len(answers) == 0 {
		return nil
	}

	now := time.Now().UTC()
	ins := r.s.builder().Insert(UserAnswersTable.Name).
		Columns("attempt_id", "user_id", "topic", "question_text", "selected_answer", "is_correct", "created_at")
	for _, ans := range answers {
		ins.Values(a.ID, a.UserID, a.Topic, ans.QuestionText, ans.SelectedAnswer, ans.IsCorrect, now)
	}

	query, args := ins.Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	return nil
}
