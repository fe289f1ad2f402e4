package content

import "github.com/abhisek/pathmind/internal/llm"

// Schemas stay permissive on counts and enums: individual questions that
// break the contract are dropped by validate.go rather than failing the
// whole batch.

var questionItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_text": map[string]any{
			"type":        "string",
			"description": "The question shown to the learner",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Exactly 4 answer options",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "The correct option, copied exactly from options",
		},
		"difficulty": map[string]any{
			"type":        "string",
			"description": "One of Easy, Medium, Hard",
		},
	},
	"required":             []any{"question_text", "options", "correct_answer", "difficulty"},
	"additionalProperties": false,
}

// QuestionsSchema wraps the question list in an object because several
// providers only accept object roots for structured output.
var QuestionsSchema = &llm.Schema{
	Name:        "diagnostic-questions",
	Description: "A batch of multiple-choice diagnostic questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionItem,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// AnalysisSchema is the shape of a scored diagnostic attempt.
var AnalysisSchema = &llm.Schema{
	Name:        "diagnostic-analysis",
	Description: "Strengths, weaknesses, a learning path and an overall score",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"weaknesses": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"learning_path": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"step":        map[string]any{"type": "string", "description": "Short unique module title"},
						"description": map[string]any{"type": "string"},
					},
					"required":             []any{"step", "description"},
					"additionalProperties": false,
				},
				"description": "3 to 5 ordered modules",
			},
			"overall_score": map[string]any{
				"type":        "number",
				"description": "Integer score from 0 to 100",
			},
		},
		"required":             []any{"strengths", "weaknesses", "learning_path", "overall_score"},
		"additionalProperties": false,
	},
}

// ModuleContentSchema is the shape of a generated lesson.
var ModuleContentSchema = &llm.Schema{
	Name:        "module-content",
	Description: "Lesson explanation, code example and one practice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation":  map[string]any{"type": "string", "description": "Markdown explanation of the concept"},
			"code_snippet": map[string]any{"type": "string", "description": "A code example demonstrating the concept"},
			"practice_question": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question":       map[string]any{"type": "string"},
					"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"correct_answer": map[string]any{"type": "string"},
					"explanation":    map[string]any{"type": "string"},
				},
				"required":             []any{"question", "options", "correct_answer", "explanation"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"explanation", "code_snippet", "practice_question"},
		"additionalProperties": false,
	},
}

// SubjectsSchema is the shape of a subject suggestion list.
var SubjectsSchema = &llm.Schema{
	Name:        "onboarding-subjects",
	Description: "Subjects or specializations for a degree programme",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subjects": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"subjects"},
		"additionalProperties": false,
	},
}
