// Package content produces quiz questions, analyses and lessons from a
// language model and rejects output that breaks their contracts.
package content

import "context"

// Generator is the content contract used by the diagnostic, lesson and
// onboarding flows. Every method except GenerateModuleTips reports
// malformed model output as an error.
type Generator interface {
	// GenerateQuestions returns at least one valid question for topic.
	GenerateQuestions(ctx context.Context, topic string) ([]Question, error)

	// AnalyzeResults scores an attempt and proposes a learning path.
	AnalyzeResults(ctx context.Context, topic string, answers []AnswerRecord) (*Analysis, error)

	// GenerateModuleContent returns the lesson for one module.
	GenerateModuleContent(ctx context.Context, topic, module string) (*ModuleContent, error)

	// GenerateModuleTips always returns a string, FallbackTip on failure.
	GenerateModuleTips(ctx context.Context, topic, module string) string

	// GenerateSubjects suggests subjects for a degree programme.
	GenerateSubjects(ctx context.Context, degree string) ([]string, error)
}
