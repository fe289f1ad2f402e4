// Package diagnostic runs a diagnostic quiz: questions are generated for
// a topic, answered one at a time and then analyzed into a learning path.
package diagnostic

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/store"
)

// Recorder persists attempt data. Implementations must not block; a
// failed write is their concern, never the session's.
type Recorder interface {
	SaveQuestions(a store.Attempt, qs []content.Question)
	SaveAnswers(a store.Attempt, answers []content.AnswerRecord)
	SaveLearningPath(a store.Attempt, an *content.Analysis)
}

// TransitionFunc observes stage changes. It runs with the session lock
// held and must not call back into the session.
type TransitionFunc func(from, to Stage, elapsed time.Duration)

// Session is one learner's diagnostic state machine. It is safe for
// concurrent use; operations that wait on the generator release the lock
// while waiting and drop their result if the session moved on.
type Session struct {
	ID   string
	User identity.Identity

	gen content.Generator
	rec Recorder
	log *logger.Logger

	mu           sync.Mutex
	state        State
	attempt      store.Attempt
	epoch        uint64
	closed       bool
	enteredAt    time.Time
	lastActive   time.Time
	onTransition TransitionFunc
	now          func() time.Time
}

// NewSession creates an idle session. rec and log may be nil.
func NewSession(user identity.Identity, gen content.Generator, rec Recorder, log *logger.Logger) *Session {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Session{
		ID:    uuid.NewString(),
		User:  user,
		gen:   gen,
		rec:   rec,
		state: &Idle{},
		now:   time.Now,
	}
	s.log = log.With("session", s.ID)
	s.enteredAt = s.now()
	s.lastActive = s.enteredAt
	return s
}

// OnTransition registers fn to observe every stage change.
func (s *Session) OnTransition(fn TransitionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTransition = fn
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stage()
}

// Busy reports whether the session is waiting on the content generator.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Busy(s.state)
}

// LastActive returns when the session last changed or was touched.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// StartTest requests questions for topic and enters testing. It is
// valid only from idle. On failure the session returns to idle with the
// failure recorded and ErrGenerationFailed is returned.
func (s *Session) StartTest(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrEmptyTopic
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStale
	}
	if Busy(s.state) {
		s.mu.Unlock()
		return ErrBusy
	}
	if _, ok := s.state.(*Idle); !ok {
		s.mu.Unlock()
		return fmt.Errorf("start test from %s: %w", s.state.Stage(), ErrInvalidTransition)
	}
	s.attempt = store.Attempt{ID: uuid.NewString(), UserID: s.User.String(), Topic: topic}
	epoch := s.transition(&Generating{Topic: topic})
	s.mu.Unlock()

	qs, err := s.gen.GenerateQuestions(ctx, topic)
	if err == nil && len(qs) == 0 {
		err = &content.ValidationError{Check: "questions", Message: "no questions returned"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.log.Debug("discarding stale questions", "topic", topic)
		return ErrStale
	}
	if err != nil {
		s.log.Warn("question generation failed", "topic", topic, "error", err)
		s.transition(&Idle{Failure: ErrGenerationFailed})
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.rec.SaveQuestions(s.attempt, qs)
	s.transition(&Testing{
		Topic:     topic,
		Questions: qs,
		Answers:   make([]content.AnswerRecord, 0, len(qs)),
	})
	return nil
}

// SelectOption records a tentative choice for the current question,
// replacing any earlier one.
func (s *Session) SelectOption(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state.(*Testing)
	if !ok {
		return s.invalid("select option")
	}
	if !t.Current().HasOption(option) {
		return ErrUnknownOption
	}
	t.Selected = option
	t.HasSelected = true
	s.lastActive = s.now()
	return nil
}

// ConfirmAnswer grades the tentative choice and moves to the next
// question. After the last question it enters analyzing and blocks until
// the analysis arrives, ending in results or, on failure, idle with
// ErrAnalysisFailed.
func (s *Session) ConfirmAnswer(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStale
	}
	t, ok := s.state.(*Testing)
	if !ok {
		err := s.invalid("confirm answer")
		s.mu.Unlock()
		return err
	}
	if !t.HasSelected {
		s.mu.Unlock()
		return ErrNoSelection
	}

	q := t.Current()
	t.Answers = append(t.Answers, content.AnswerRecord{
		QuestionText:   q.Text,
		SelectedAnswer: t.Selected,
		IsCorrect:      t.Selected == q.CorrectAnswer,
	})
	t.Selected, t.HasSelected = "", false

	if !t.IsLast() {
		t.Index++
		s.lastActive = s.now()
		s.mu.Unlock()
		return nil
	}

	topic, answers, attempt := t.Topic, t.Answers, s.attempt
	s.rec.SaveAnswers(attempt, answers)
	epoch := s.transition(&Analyzing{Topic: topic, Answers: answers})
	s.mu.Unlock()

	an, err := s.gen.AnalyzeResults(ctx, topic, answers)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.log.Debug("discarding stale analysis", "topic", topic)
		return ErrStale
	}
	if err != nil {
		s.log.Warn("analysis failed", "topic", topic, "error", err)
		s.transition(&Idle{Failure: ErrAnalysisFailed})
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	s.rec.SaveLearningPath(attempt, an)
	s.transition(&Results{Topic: topic, Answers: answers, Analysis: an})
	return nil
}

// Reset clears a finished attempt. It is valid from results, and from
// idle where it clears a recorded failure.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case *Results, *Idle:
		s.attempt = store.Attempt{}
		s.transition(&Idle{})
		return nil
	}
	return s.invalid("reset")
}

// Abandon returns the session to idle from any stage and closes it. A
// generator call still in flight has its result discarded, and later
// StartTest or ConfirmAnswer calls fail with ErrStale, including a start
// that was queued but had not run yet.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.attempt = store.Attempt{}
	s.transition(&Idle{})
}

// Closed reports whether Abandon was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// transition swaps the state, bumps the epoch and returns it. Callers
// hold s.mu.
func (s *Session) transition(next State) uint64 {
	from := s.state.Stage()
	now := s.now()
	elapsed := now.Sub(s.enteredAt)

	s.state = next
	s.epoch++
	s.enteredAt = now
	s.lastActive = now

	s.log.Debug("diagnostic transition", "from", from.String(), "to", next.Stage().String())
	if s.onTransition != nil {
		s.onTransition(from, next.Stage(), elapsed)
	}
	return s.epoch
}

func (s *Session) invalid(op string) error {
	if Busy(s.state) {
		return ErrBusy
	}
	return fmt.Errorf("%s from %s: %w", op, s.state.Stage(), ErrInvalidTransition)
}

type nopRecorder struct{}

func (nopRecorder) SaveQuestions(store.Attempt, []content.Question)   {}
func (nopRecorder) SaveAnswers(store.Attempt, []content.AnswerRecord) {}
func (nopRecorder) SaveLearningPath(store.Attempt, *content.Analysis) {}
