// Package lesson runs one module of a learning path: the lesson content,
// its practice question and the completion that unlocks the next module.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/progression"
)

// AutoAdvanceDelay is how long a correct answer is shown before the
// lesson completes on its own.
const AutoAdvanceDelay = 2 * time.Second

var (
	// ErrOutOfRange and ErrLocked are navigation guards: the caller
	// should send the learner back to the topic dashboard.
	ErrOutOfRange = errors.New("lesson: module index out of range")
	ErrLocked     = errors.New("lesson: module is locked")

	// ErrNoLearningPath sends the learner back to topic entry.
	ErrNoLearningPath = errors.New("lesson: no learning path for topic")

	ErrContentUnavailable = errors.New("lesson: content unavailable")
	ErrInvalidTransition  = errors.New("lesson: operation not valid in current phase")
	ErrNoSelection        = errors.New("lesson: no option selected")
	ErrUnknownOption      = errors.New("lesson: option is not one of the question's options")
)

// Dashboards loads the derived module views for a topic.
type Dashboards interface {
	Dashboard(ctx context.Context, id identity.Identity, topic string) (*progression.Dashboard, error)
}

// Recorder persists completions without blocking.
type Recorder interface {
	MarkCompleted(userID, moduleID string)
}

// Flow opens lessons.
type Flow struct {
	gen  content.Generator
	dash Dashboards
	rec  Recorder
	log  *logger.Logger
}

// NewFlow creates a Flow. log may be nil.
func NewFlow(gen content.Generator, dash Dashboards, rec Recorder, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Nop()
	}
	return &Flow{gen: gen, dash: dash, rec: rec, log: log}
}

// Open loads the module at index for topic. review asks for review mode;
// a module that is already completed is always opened in review mode.
func (f *Flow) Open(ctx context.Context, id identity.Identity, topic string, index int, review bool) (*Lesson, error) {
	d, err := f.dash.Dashboard(ctx, id, topic)
	if errors.Is(err, progression.ErrNoLearningPath) {
		return nil, ErrNoLearningPath
	}
	if err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	m, ok := d.Module(index)
	if !ok {
		return nil, ErrOutOfRange
	}
	if m.Status == progression.StatusLocked {
		return nil, ErrLocked
	}

	mc, err := f.gen.GenerateModuleContent(ctx, topic, m.Step)
	if err != nil {
		f.log.Warn("module content failed", "topic", topic, "module", m.Step, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}

	return &Lesson{
		Topic:   d.Topic,
		Module:  m,
		Total:   len(d.Modules),
		Content: mc,
		Review:  review || m.Status == progression.StatusCompleted,
		user:    id,
		flow:    f,
		phase:   PhaseReady,
	}, nil
}

// Phase is where a Lesson stands.
type Phase int

const (
	PhaseReady     Phase = iota // Reading the lesson
	PhasePractice               // Practice question open
	PhaseGraded                 // Answered correctly, waiting to complete
	PhaseCompleted              // Done
)

var phaseNames = [...]string{"ready", "practice", "graded", "completed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Grade is the outcome of one submission.
type Grade struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`

	// AdvanceAfter is set on a correct answer.
	AdvanceAfter time.Duration `json:"-"`
}

// Lesson is one opened module. It is safe for concurrent use.
type Lesson struct {
	Topic   string
	Module  progression.ModuleView
	Total   int
	Content *content.ModuleContent
	Review  bool

	user identity.Identity
	flow *Flow

	// completing serializes Complete so the tip is fetched once.
	completing sync.Mutex

	mu       sync.Mutex
	phase    Phase
	selected string
	attempts int
	tip      string
}

// Phase returns the current phase.
func (l *Lesson) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Attempts returns how many answers were submitted.
func (l *Lesson) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}

// HasNext reports whether another module follows this one.
func (l *Lesson) HasNext() bool {
	return l.Module.Index+1 < l.Total
}

// StartPractice opens the practice question.
func (l *Lesson) StartPractice() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.phase {
	case PhaseReady:
		l.phase = PhasePractice
		return nil
	case PhasePractice:
		return nil
	}
	return fmt.Errorf("start practice from %s: %w", l.phase, ErrInvalidTransition)
}

// Select sets the tentative answer, replacing any earlier one.
func (l *Lesson) Select(option string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhasePractice {
		return fmt.Errorf("select from %s: %w", l.phase, ErrInvalidTransition)
	}
	if !hasOption(l.Content.Practice.Options, option) {
		return ErrUnknownOption
	}
	l.selected = option
	return nil
}

// Submit grades the selected answer. A wrong answer clears the selection
// and leaves the question open; nothing is recorded.
func (l *Lesson) Submit() (Grade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhasePractice {
		return Grade{}, fmt.Errorf("submit from %s: %w", l.phase, ErrInvalidTransition)
	}
	if l.selected == "" {
		return Grade{}, ErrNoSelection
	}

	l.attempts++
	pq := l.Content.Practice
	g := Grade{
		Correct:     l.selected == pq.CorrectAnswer,
		Explanation: pq.Explanation,
	}
	l.selected = ""
	if g.Correct {
		g.AdvanceAfter = AutoAdvanceDelay
		l.phase = PhaseGraded
	}
	return g, nil
}

// Complete finishes a correctly answered lesson: it records the
// completion, then fetches a tip. In review mode both are skipped and the
// tip is empty. Repeated calls return the first result without side
// effects.
func (l *Lesson) Complete(ctx context.Context) (string, error) {
	l.completing.Lock()
	defer l.completing.Unlock()

	l.mu.Lock()
	switch l.phase {
	case PhaseCompleted:
		tip := l.tip
		l.mu.Unlock()
		return tip, nil
	case PhaseGraded:
	default:
		err := fmt.Errorf("complete from %s: %w", l.phase, ErrInvalidTransition)
		l.mu.Unlock()
		return "", err
	}
	review := l.Review
	if !review && l.flow.rec != nil {
		l.flow.rec.MarkCompleted(l.user.String(), l.Module.Step)
	}
	l.mu.Unlock()

	// The tip is cosmetic; the completion above never waits on it.
	var tip string
	if !review {
		tip = l.flow.gen.GenerateModuleTips(ctx, l.Topic, l.Module.Step)
	}

	l.mu.Lock()
	l.tip = tip
	l.phase = PhaseCompleted
	l.mu.Unlock()
	return tip, nil
}

func hasOption(options []string, opt string) bool {
	for _, o := range options {
		if o == opt {
			return true
		}
	}
	return false
}
