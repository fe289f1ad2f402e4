// Package persist applies store writes in the background so that the
// learner-facing flow never waits on, or fails because of, the database.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/store"
)

// ErrDropped is returned by Flush when the queue is full or closed.
var ErrDropped = errors.New("persist: write dropped")

// DefaultQueueSize bounds the number of pending writes.
const DefaultQueueSize = 64

// jobTimeout caps a single store write.
const jobTimeout = 10 * time.Second

// Repos is the subset of the store the writer needs.
type Repos struct {
	Diagnostic   store.DiagnosticRepo
	LearningPath store.LearningPathRepo
	Progress     store.ProgressRepo
}

type job struct {
	op  string
	run func(ctx context.Context) error
}

// Writer is a fire-and-forget queue in front of the store. Jobs run in
// enqueue order on a single goroutine; failures are logged and dropped.
type Writer struct {
	repos Repos
	log   *logger.Logger
	now   func() time.Time

	mu      sync.Mutex
	closed  bool
	pending chan job
	done    chan struct{}
}

// NewWriter starts a Writer. A queueSize <= 0 uses DefaultQueueSize.
func NewWriter(repos Repos, queueSize int, log *logger.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = logger.Nop()
	}
	w := &Writer{
		repos:   repos,
		log:     log,
		now:     time.Now,
		pending: make(chan job, queueSize),
		done:    make(chan struct{}),
	}
	go w.processLoop()
	return w
}

// Enqueue schedules fn without blocking. It reports false when the job
// was dropped because the queue is full or the writer is closed.
func (w *Writer) Enqueue(op string, fn func(ctx context.Context) error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.log.Warn("persist writer closed, dropping write", "op", op)
		return false
	}
	select {
	case w.pending <- job{op: op, run: fn}:
		return true
	default:
		w.log.Warn("persist queue full, dropping write", "op", op)
		return false
	}
}

func (w *Writer) processLoop() {
	defer close(w.done)
	for j := range w.pending {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := j.run(ctx); err != nil {
			w.log.Warn("persist write failed", "op", j.op, "error", err)
		}
		cancel()
	}
}

// Flush waits until every write enqueued before it has been applied. It
// returns ErrDropped when the marker could not be queued.
func (w *Writer) Flush(ctx context.Context) error {
	applied := make(chan struct{})
	if !w.Enqueue("flush", func(context.Context) error {
		close(applied)
		return nil
	}) {
		return ErrDropped
	}

	select {
	case <-applied:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits until queued jobs have run or ctx
// is done. It is safe to call more than once.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.pending)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SaveQuestions records the generated questions of an attempt.
func (w *Writer) SaveQuestions(a store.Attempt, qs []content.Question) {
	recs := make([]store.QuestionRecord, len(qs))
	for i, q := range qs {
		recs[i] = store.QuestionRecord{
			QuestionText:  q.Text,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    string(q.Difficulty),
		}
	}
	w.Enqueue("save-questions", func(ctx context.Context) error {
		return w.repos.Diagnostic.SaveQuestions(ctx, a, recs)
	})
}

// SaveAnswers records the confirmed answers of an attempt.
func (w *Writer) SaveAnswers(a store.Attempt, answers []content.AnswerRecord) {
	recs := make([]store.AnswerRecord, len(answers))
	for i, ans := range answers {
		recs[i] = store.AnswerRecord{
			QuestionText:   ans.QuestionText,
			SelectedAnswer: ans.SelectedAnswer,
			IsCorrect:      ans.IsCorrect,
		}
	}
	w.Enqueue("save-answers", func(ctx context.Context) error {
		return w.repos.Diagnostic.SaveAnswers(ctx, a, recs)
	})
}

// SaveLearningPath records the analysis of an attempt as a new path.
func (w *Writer) SaveLearningPath(a store.Attempt, an *content.Analysis) {
	lp := LearningPathRecord(a, an, w.now())
	w.Enqueue("save-learning-path", func(ctx context.Context) error {
		return w.repos.LearningPath.SaveLearningPath(ctx, lp)
	})
}

// MarkCompleted upserts the completion of moduleID for userID.
func (w *Writer) MarkCompleted(userID, moduleID string) {
	c := store.ModuleCompletion{UserID: userID, ModuleID: moduleID, CompletedAt: w.now()}
	w.Enqueue("mark-completed", func(ctx context.Context) error {
		return w.repos.Progress.UpsertCompletion(ctx, c)
	})
}

// LearningPathRecord converts an analysis into its stored form.
func LearningPathRecord(a store.Attempt, an *content.Analysis, at time.Time) *store.LearningPath {
	modules := make([]store.ModuleRecord, len(an.LearningPath))
	for i, m := range an.LearningPath {
		modules[i] = store.ModuleRecord{Step: m.Step, Description: m.Description}
	}
	return &store.LearningPath{
		AttemptID:    a.ID,
		UserID:       a.UserID,
		Topic:        a.Topic,
		Strengths:    append([]string(nil), an.Strengths...),
		Weaknesses:   append([]string(nil), an.Weaknesses...),
		Modules:      modules,
		OverallScore: an.OverallScore,
		CreatedAt:    at,
	}
}
