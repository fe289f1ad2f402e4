package diagnostic

import "github.com/abhisek/pathmind/internal/content"

// QuestionView is a question without its answer.
type QuestionView struct {
	Text       string             `json:"question_text"`
	Options    []string           `json:"options"`
	Difficulty content.Difficulty `json:"difficulty"`
}

// View is a render-ready snapshot of a session. Correct answers are never
// included while a test is running.
type View struct {
	ID        string            `json:"id"`
	Stage     string            `json:"stage"`
	Topic     string            `json:"topic,omitempty"`
	Question  *QuestionView     `json:"question,omitempty"`
	Index     int               `json:"index"`
	Total     int               `json:"total"`
	Selected  string            `json:"selected,omitempty"`
	Answered  int               `json:"answered"`
	Correct   int               `json:"correct"`
	Analysis  *content.Analysis `json:"analysis,omitempty"`
	Error     string            `json:"error,omitempty"`
	AttemptID string            `json:"attempt_id,omitempty"`
}

// View returns a snapshot of the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.ID,
		Stage:     s.state.Stage().String(),
		AttemptID: s.attempt.ID,
	}

	switch st := s.state.(type) {
	case *Idle:
		v.Error = UserMessage(st.Failure)
	case *Generating:
		v.Topic = st.Topic
	case *Testing:
		q := st.Current()
		v.Topic = st.Topic
		v.Question = &QuestionView{
			Text:       q.Text,
			Options:    append([]string(nil), q.Options...),
			Difficulty: q.Difficulty,
		}
		v.Index = st.Index
		v.Total = len(st.Questions)
		v.Selected = st.Selected
		v.Answered, v.Correct = tally(st.Answers)
	case *Analyzing:
		v.Topic = st.Topic
		v.Total = len(st.Answers)
		v.Answered, v.Correct = tally(st.Answers)
	case *Results:
		v.Topic = st.Topic
		v.Total = len(st.Answers)
		v.Answered, v.Correct = tally(st.Answers)
		v.Analysis = st.Analysis
	}
	return v
}

func tally(answers []content.AnswerRecord) (answered, correct int) {
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return len(answers), correct
}
