package content

import "fmt"

// QuestionCount is how many diagnostic questions are requested per attempt.
// Callers must cope with any non-zero count actually returned.
const QuestionCount = 5

// FallbackTip is shown when no tip could be generated.
const FallbackTip = "Great job! Keep going to master this topic."

// Difficulty grades a diagnostic question.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Question is one multiple-choice diagnostic question.
type Question struct {
	Text          string     `json:"question_text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
}

// HasOption reports whether opt is exactly one of the question's options.
func (q Question) HasOption(opt string) bool {
	return contains(q.Options, opt)
}

// AnswerRecord is the learner's confirmed answer to one question.
type AnswerRecord struct {
	QuestionText   string `json:"question_text"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// Module is one step of a learning path. Step doubles as its identifier.
type Module struct {
	Step        string `json:"step"`
	Description string `json:"description"`
}

// Analysis is the scored outcome of a diagnostic attempt.
type Analysis struct {
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	LearningPath []Module `json:"learning_path"`
	OverallScore int      `json:"overall_score"`
}

// PracticeQuestion closes a lesson.
type PracticeQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// ModuleContent is a generated lesson.
type ModuleContent struct {
	Explanation string           `json:"explanation"`
	CodeSnippet string           `json:"code_snippet"`
	Practice    PracticeQuestion `json:"practice_question"`
}

// ValidationError describes generated output that breaks the content
// contract. It is treated like any other generator failure.
type ValidationError struct {
	Check   string // short identifier, e.g. "overall-score"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content check %q: %s", e.Check, e.Message)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
