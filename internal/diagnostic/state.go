package diagnostic

import "github.com/abhisek/pathmind/internal/content"

// Stage names the variant a State holds.
type Stage int

const (
	StageIdle       Stage = iota // Waiting for a topic
	StageGenerating              // Questions requested
	StageTesting                 // Answering questions
	StageAnalyzing               // Answers submitted, analysis requested
	StageResults                 // Analysis shown
)

var stageNames = [...]string{"idle", "generating", "testing", "analyzing", "results"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// State is one of Idle, Generating, Testing, Analyzing or Results. Each
// variant carries only the data valid in its stage.
type State interface {
	Stage() Stage
	isState()
}

// Idle is the resting state. Failure holds the user-facing reason the
// previous attempt ended, if it failed.
type Idle struct {
	Failure error
}

// Generating waits for the question batch.
type Generating struct {
	Topic string
}

// Testing walks through the questions one at a time.
type Testing struct {
	Topic     string
	Questions []content.Question
	Index     int
	Answers   []content.AnswerRecord

	// Selected is the tentative choice for the current question.
	Selected    string
	HasSelected bool
}

// Current returns the question being answered.
func (t *Testing) Current() content.Question {
	return t.Questions[t.Index]
}

// IsLast reports whether the current question is the final one.
func (t *Testing) IsLast() bool {
	return t.Index >= len(t.Questions)-1
}

// Analyzing waits for the analysis of a completed attempt.
type Analyzing struct {
	Topic   string
	Answers []content.AnswerRecord
}

// Results holds the analysis of a completed attempt.
type Results struct {
	Topic    string
	Answers  []content.AnswerRecord
	Analysis *content.Analysis
}

func (*Idle) Stage() Stage       { return StageIdle }
func (*Generating) Stage() Stage { return StageGenerating }
func (*Testing) Stage() Stage    { return StageTesting }
func (*Analyzing) Stage() Stage  { return StageAnalyzing }
func (*Results) Stage() Stage    { return StageResults }

func (*Idle) isState()       {}
func (*Generating) isState() {}
func (*Testing) isState()    {}
func (*Analyzing) isState()  {}
func (*Results) isState()    {}

// Busy reports whether s is waiting on the content generator.
func Busy(s State) bool {
	switch s.(type) {
	case *Generating, *Analyzing:
		return true
	}
	return false
}
