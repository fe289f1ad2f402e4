package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/pathmind/internal/llm"
)

func questionsJSON() json.RawMessage {
	return json.RawMessage(`{"questions":[
		{"question_text":"What does a for loop do?","options":["Repeats code","Declares a type","Imports a package","Exits"],"correct_answer":"Repeats code","difficulty":"Easy"},
		{"question_text":"What is recursion?","options":["A loop keyword","A function calling itself","A data type","A compiler flag"],"correct_answer":"A function calling itself","difficulty":"Medium"},
		{"question_text":"Big-O of binary search?","options":["O(n)","O(1)","O(log n)","O(n^2)"],"correct_answer":"O(log n)","difficulty":"Hard"}
	]}`)
}

func analysisJSON(score string) json.RawMessage {
	return json.RawMessage(`{
		"strengths": ["Loops", "  "],
		"weaknesses": ["Recursion"],
		"learning_path": [
			{"step": "Loops", "description": "Iterating over collections"},
			{"step": "Recursion", "description": "Functions that call themselves"},
			{"step": "Big-O", "description": "Reasoning about cost"}
		],
		"overall_score": ` + score + `
	}`)
}

func moduleJSON() json.RawMessage {
	return json.RawMessage(`{
		"explanation": "A **loop** repeats a block of code.",
		"code_snippet": "for i := 0; i < 3; i++ {}",
		"practice_question": {
			"question": "How many times does the loop run?",
			"options": ["1", "2", "3", "4"],
			"correct_answer": "3",
			"explanation": "i takes the values 0, 1 and 2."
		}
	}`)
}

func TestGenerateQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionsJSON()})
	gen := New(mock, DefaultConfig(), nil)

	qs, err := gen.GenerateQuestions(context.Background(), "Algorithms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	if qs[1].CorrectAnswer != "A function calling itself" || qs[1].Difficulty != Medium {
		t.Errorf("unexpected question: %+v", qs[1])
	}

	if got := mock.PurposeLog(); len(got) != 1 || got[0] != llm.PurposeDiagnosticQuestions {
		t.Errorf("unexpected purposes: %v", got)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Topic: Algorithms") {
		t.Errorf("topic missing from prompt: %q", mock.Calls[0].Messages[0].Content)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Questions: 5") {
		t.Errorf("question count missing from prompt: %q", mock.Calls[0].Messages[0].Content)
	}
}

func TestGenerateQuestions_DropsInvalid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[
		{"question_text":"Two options","options":["a","b"],"correct_answer":"a","difficulty":"Easy"},
		{"question_text":"Answer missing","options":["a","b","c","d"],"correct_answer":"e","difficulty":"Easy"},
		{"question_text":"Bad level","options":["a","b","c","d"],"correct_answer":"a","difficulty":"Trivial"},
		{"question_text":"Fine","options":["a","b","c","d"],"correct_answer":"d","difficulty":"Hard"}
	]}`)})
	gen := New(mock, DefaultConfig(), nil)

	qs, err := gen.GenerateQuestions(context.Background(), "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 || qs[0].Text != "Fine" {
		t.Fatalf("expected only the valid question, got %+v", qs)
	}
}

func TestGenerateQuestions_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"empty list", llm.MockResponse{Content: json.RawMessage(`{"questions":[]}`)}},
		{"all invalid", llm.MockResponse{Content: json.RawMessage(`{"questions":[{"question_text":"Q","options":["a"],"correct_answer":"a","difficulty":"Easy"}]}`)}},
		{"bare array", llm.MockResponse{Content: json.RawMessage(`[{"question_text":"Q"}]`)}},
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(llm.NewMockProvider(tt.resp), DefaultConfig(), nil)
			qs, err := gen.GenerateQuestions(context.Background(), "Go")
			if err == nil {
				t.Fatalf("expected error, got %d questions", len(qs))
			}
		})
	}
}

func TestAnalyzeResults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: analysisJSON("67")})
	gen := New(mock, DefaultConfig(), nil)

	answers := []AnswerRecord{
		{QuestionText: "What does a for loop do?", SelectedAnswer: "Repeats code", IsCorrect: true},
		{QuestionText: "What is recursion?", SelectedAnswer: "A data type", IsCorrect: false},
	}
	a, err := gen.AnalyzeResults(context.Background(), "Algorithms", answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.OverallScore != 67 {
		t.Errorf("expected score 67, got %d", a.OverallScore)
	}
	if len(a.Strengths) != 1 || a.Strengths[0] != "Loops" {
		t.Errorf("blank strengths must be removed, got %q", a.Strengths)
	}
	if len(a.LearningPath) != 3 || a.LearningPath[2].Step != "Big-O" {
		t.Errorf("unexpected path: %+v", a.LearningPath)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Correct: 1 of 2") || !strings.Contains(msg, `"selected_answer": "A data type"`) {
		t.Errorf("answers missing from prompt: %q", msg)
	}
}

func TestAnalyzeResults_RejectsBadScores(t *testing.T) {
	for _, score := range []string{"150", "-1", "72.5", `"high"`} {
		t.Run(score, func(t *testing.T) {
			gen := New(llm.NewMockProvider(llm.MockResponse{Content: analysisJSON(score)}), DefaultConfig(), nil)
			a, err := gen.AnalyzeResults(context.Background(), "Go", nil)
			if err == nil {
				t.Fatalf("expected error, got score %d", a.OverallScore)
			}
			if !IsContractViolation(err) {
				t.Errorf("expected a contract violation, got %T (%v)", err, err)
			}
		})
	}
}

func TestAnalyzeResults_RejectsBadPath(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", `[]`},
		{"duplicate steps", `[{"step":"Loops","description":"a"},{"step":"Loops","description":"b"}]`},
		{"blank step", `[{"step":" ","description":"a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"strengths":[],"weaknesses":[],"learning_path":` + tt.path + `,"overall_score":50}`
			gen := New(llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)}), DefaultConfig(), nil)
			if _, err := gen.AnalyzeResults(context.Background(), "Go", nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGenerateModuleContent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: moduleJSON()})
	gen := New(mock, DefaultConfig(), nil)

	mc, err := gen.GenerateModuleContent(context.Background(), "Go", "Loops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mc.Practice.CorrectAnswer != "3" || mc.CodeSnippet == "" {
		t.Errorf("unexpected content: %+v", mc)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Module: Loops") {
		t.Errorf("module missing from prompt")
	}
}

func TestGenerateModuleContent_BadPractice(t *testing.T) {
	raw := json.RawMessage(`{"explanation":"x","code_snippet":"","practice_question":{"question":"Q","options":["1","2","3","4"],"correct_answer":"5","explanation":"e"}}`)
	gen := New(llm.NewMockProvider(llm.MockResponse{Content: raw}), DefaultConfig(), nil)

	_, err := gen.GenerateModuleContent(context.Background(), "Go", "Loops")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Check != "practice-answer" {
		t.Fatalf("expected practice-answer violation, got %v", err)
	}
}

func TestGenerateModuleTips(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`"Loops are everywhere. Next up: recursion!"`)},
		llm.MockResponse{Content: json.RawMessage("   ")},
		llm.MockResponse{Err: errors.New("boom")},
	)
	gen := New(mock, DefaultConfig(), nil)
	ctx := context.Background()

	if got := gen.GenerateModuleTips(ctx, "Go", "Loops"); got != "Loops are everywhere. Next up: recursion!" {
		t.Errorf("unexpected tip %q", got)
	}
	if got := gen.GenerateModuleTips(ctx, "Go", "Loops"); got != FallbackTip {
		t.Errorf("blank tip should fall back, got %q", got)
	}
	if got := gen.GenerateModuleTips(ctx, "Go", "Loops"); got != FallbackTip {
		t.Errorf("failed tip should fall back, got %q", got)
	}
	if mock.Calls[0].Schema != nil {
		t.Error("tips are plain text and must not carry a schema")
	}
}

func TestGenerateSubjects(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"subjects":["DSA","OS","DBMS","OS",""]}`)},
		llm.MockResponse{Content: json.RawMessage(`{"subjects":[]}`)},
	)
	gen := New(mock, DefaultConfig(), nil)

	got, err := gen.GenerateSubjects(context.Background(), "B.Tech CSE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(got, ",") != "DSA,OS,DBMS" {
		t.Errorf("unexpected subjects %q", got)
	}

	if _, err := gen.GenerateSubjects(context.Background(), "B.Tech CSE"); err == nil {
		t.Error("expected error for empty subject list")
	}
}
