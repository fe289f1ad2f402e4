package onboarding

import (
	"errors"
	"fmt"
)

// Step is a position in the onboarding flow.
type Step int

const (
	StepEducation Step = iota + 1
	StepDegree
	StepSubject
	StepTopic
)

// StepCount is the number of steps.
const StepCount = 4

var ErrUnknownLevel = errors.New("onboarding: unknown education level")

// Flow records the learner's choices one step at a time.
type Flow struct {
	step    Step
	Level   string
	Degree  string
	Subject string
	Topic   string
}

// NewFlow starts at the education step.
func NewFlow() *Flow {
	return &Flow{step: StepEducation}
}

// Step returns the current step.
func (f *Flow) Step() Step { return f.step }

// Done reports whether a topic was chosen.
func (f *Flow) Done() bool { return f.Topic != "" }

// ChooseLevel records the education level.
func (f *Flow) ChooseLevel(id string) error {
	if err := f.expect(StepEducation); err != nil {
		return err
	}
	if _, ok := degreesByLevel[id]; !ok {
		return ErrUnknownLevel
	}
	f.Level = id
	f.step = StepDegree
	return nil
}

// ChooseDegree records a listed or free-text degree.
func (f *Flow) ChooseDegree(degree string) error {
	if err := f.expect(StepDegree); err != nil {
		return err
	}
	d, err := ValidateFreeText(degree)
	if err != nil {
		return err
	}
	f.Degree = d
	f.step = StepSubject
	return nil
}

// ChooseSubject records a listed or free-text subject.
func (f *Flow) ChooseSubject(subject string) error {
	if err := f.expect(StepSubject); err != nil {
		return err
	}
	s, err := ValidateFreeText(subject)
	if err != nil {
		return err
	}
	f.Subject = s
	f.step = StepTopic
	return nil
}

// ChooseTopic records the topic that starts the diagnostic.
func (f *Flow) ChooseTopic(topic string) error {
	if err := f.expect(StepTopic); err != nil {
		return err
	}
	t, err := ValidateFreeText(topic)
	if err != nil {
		return err
	}
	f.Topic = t
	return nil
}

// Back returns to the previous step, keeping earlier choices.
func (f *Flow) Back() {
	if f.step > StepEducation {
		f.step--
	}
	f.Topic = ""
}

func (f *Flow) expect(s Step) error {
	if f.step != s {
		return fmt.Errorf("onboarding: at step %d, not %d", f.step, s)
	}
	return nil
}
