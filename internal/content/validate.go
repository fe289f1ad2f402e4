package content

import (
	"fmt"
	"math"
	"strings"
)

const optionCount = 4

// checkQuestion reports why q breaks the question contract, or nil.
func checkQuestion(q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Check: "question-text", Message: "question text is empty"}
	}
	if len(q.Options) != optionCount {
		return &ValidationError{
			Check:   "question-options",
			Message: fmt.Sprintf("want %d options, got %d", optionCount, len(q.Options)),
		}
	}
	if !q.HasOption(q.CorrectAnswer) {
		return &ValidationError{
			Check:   "question-answer",
			Message: fmt.Sprintf("correct answer %q is not among the options", q.CorrectAnswer),
		}
	}
	if !q.Difficulty.Valid() {
		return &ValidationError{
			Check:   "question-difficulty",
			Message: fmt.Sprintf("unknown difficulty %q", q.Difficulty),
		}
	}
	return nil
}

// validQuestions keeps the questions that pass checkQuestion, in order.
// The returned errors describe the dropped ones.
func validQuestions(qs []Question) ([]Question, []error) {
	var (
		kept    []Question
		dropped []error
	)
	for i, q := range qs {
		if err := checkQuestion(q); err != nil {
			dropped = append(dropped, fmt.Errorf("question %d: %w", i+1, err))
			continue
		}
		kept = append(kept, q)
	}
	return kept, dropped
}

// checkScore accepts only integral values in [0,100].
func checkScore(v any) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, &ValidationError{Check: "overall-score", Message: fmt.Sprintf("score %v is not a number", v)}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &ValidationError{Check: "overall-score", Message: fmt.Sprintf("score %v is not an integer", f)}
	}
	if f < 0 || f > 100 {
		return 0, &ValidationError{Check: "overall-score", Message: fmt.Sprintf("score %v is outside 0..100", f)}
	}
	return int(f), nil
}

// checkLearningPath requires a non-empty path of unique, non-empty steps.
// Steps are identifiers for completion lookups, so duplicates are fatal.
func checkLearningPath(modules []Module) error {
	if len(modules) == 0 {
		return &ValidationError{Check: "learning-path", Message: "learning path is empty"}
	}
	seen := make(map[string]bool, len(modules))
	for i, m := range modules {
		if strings.TrimSpace(m.Step) == "" {
			return &ValidationError{Check: "learning-path", Message: fmt.Sprintf("module %d has no step name", i+1)}
		}
		if seen[m.Step] {
			return &ValidationError{Check: "learning-path", Message: fmt.Sprintf("duplicate step %q", m.Step)}
		}
		seen[m.Step] = true
	}
	return nil
}

// checkPractice validates the practice question closing a lesson.
func checkPractice(p PracticeQuestion) error {
	if strings.TrimSpace(p.Question) == "" {
		return &ValidationError{Check: "practice-question", Message: "practice question is empty"}
	}
	if len(p.Options) != optionCount {
		return &ValidationError{
			Check:   "practice-options",
			Message: fmt.Sprintf("want %d options, got %d", optionCount, len(p.Options)),
		}
	}
	if !contains(p.Options, p.CorrectAnswer) {
		return &ValidationError{
			Check:   "practice-answer",
			Message: fmt.Sprintf("correct answer %q is not among the options", p.CorrectAnswer),
		}
	}
	return nil
}

// cleanStrings trims entries and drops the blank ones. An empty entry
// would match every module as a substring.
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
