// Package screentest helps drive screens in tests without a terminal.
package screentest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/persist"
	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/store"
)

// Key returns a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special returns a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Enter is the enter key.
var Enter = Special(tea.KeyEnter)

// Await runs cmd, expanding batches, and returns the first message of
// type T. Commands run concurrently so a slow tick never blocks a
// faster result. It fails the test after timeout.
func Await[T any](t *testing.T, cmd tea.Cmd, timeout time.Duration) T {
	t.Helper()
	ch := make(chan tea.Msg, 32)

	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			select {
			case ch <- msg:
			default:
			}
		}()
	}
	run(cmd)

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-ch:
			if m, ok := msg.(T); ok {
				return m
			}
		case <-deadline:
			var zero T
			t.Fatalf("no %T within %s", zero, timeout)
			return zero
		}
	}
}

// Generator is a content.Generator with canned answers.
type Generator struct {
	mu sync.Mutex

	QuestionErr error
	AnalysisErr error
	ContentErr  error
	SubjectsErr error

	// Gate, when set, holds GenerateQuestions until it is closed.
	Gate chan struct{}
}

var _ content.Generator = (*Generator)(nil)

// ErrBoom is a generic generator failure.
var ErrBoom = errors.New("generator failed")

func (g *Generator) GenerateQuestions(ctx context.Context, topic string) ([]content.Question, error) {
	g.mu.Lock()
	gate, err := g.Gate, g.QuestionErr
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []content.Question{
		{Text: "What is " + topic + "?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a", Difficulty: content.Easy},
		{Text: "Why " + topic + "?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "b", Difficulty: content.Medium},
	}, nil
}

func (g *Generator) AnalyzeResults(context.Context, string, []content.AnswerRecord) (*content.Analysis, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.AnalysisErr != nil {
		return nil, g.AnalysisErr
	}
	return &content.Analysis{
		Strengths:    []string{"Syntax"},
		Weaknesses:   []string{"Closures"},
		LearningPath: []content.Module{{Step: "Syntax", Description: "The basics"}, {Step: "Closures", Description: "Functions as values"}},
		OverallScore: 50,
	}, nil
}

func (g *Generator) GenerateModuleContent(_ context.Context, _, module string) (*content.ModuleContent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ContentErr != nil {
		return nil, g.ContentErr
	}
	return &content.ModuleContent{
		Explanation: "All about " + module,
		CodeSnippet: "x := 1",
		Practice: content.PracticeQuestion{
			Question:      "Pick c",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "c",
			Explanation:   "c is right.",
		},
	}, nil
}

func (g *Generator) GenerateModuleTips(context.Context, string, string) string {
	return "Keep going!"
}

func (g *Generator) GenerateSubjects(context.Context, string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.SubjectsErr != nil {
		return nil, g.SubjectsErr
	}
	return []string{"Algorithms", "Networks"}, nil
}

// Env is a full set of screen services over an in-memory store.
type Env struct {
	Services screen.Services
	Gen      *Generator
	Writer   *persist.Writer
}

// NewEnv builds an Env private to the test.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	w := persist.NewWriter(persist.Repos{
		Diagnostic:   s.DiagnosticRepo(),
		LearningPath: s.LearningPathRepo(),
		Progress:     s.ProgressRepo(),
	}, 0, nil)
	t.Cleanup(func() {
		w.Close(context.Background())
		s.Close()
	})

	gen := &Generator{}
	progress := progression.NewService(s.LearningPathRepo(), s.ProgressRepo(), nil)
	return &Env{
		Gen:    gen,
		Writer: w,
		Services: screen.Services{
			Generator: gen,
			Recorder:  w,
			Progress:  progress,
			Lessons:   lesson.NewFlow(gen, progress, w, nil),
			User:      identity.FromName("ada"),
		},
	}
}

// SeedPath stores the generator's analysis as the learning path for topic.
func (e *Env) SeedPath(t *testing.T, topic string) {
	t.Helper()
	an, err := e.Gen.AnalyzeResults(context.Background(), topic, nil)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	e.Writer.SaveLearningPath(store.Attempt{ID: uuid.NewString(), UserID: e.Services.User.String(), Topic: topic}, an)
	e.Flush(t)
}

// Flush waits for queued writes.
func (e *Env) Flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Writer.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}
