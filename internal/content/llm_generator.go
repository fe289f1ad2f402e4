package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/pathmind/internal/llm"
	"github.com/abhisek/pathmind/internal/logger"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a new LLMGenerator with the given provider and config.
// A nil log discards output.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = QuestionCount
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

type questionsOutput struct {
	Questions []Question `json:"questions"`
}

// analysisOutput keeps the score untyped so that fractional and
// out-of-range values are reported instead of truncated.
type analysisOutput struct {
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	LearningPath []Module `json:"learning_path"`
	OverallScore any      `json:"overall_score"`
}

type subjectsOutput struct {
	Subjects []string `json:"subjects"`
}

// GenerateQuestions requests a batch of questions and keeps the valid ones.
func (g *LLMGenerator) GenerateQuestions(ctx context.Context, topic string) ([]Question, error) {
	ctx = llm.WithLabel(ctx, llm.Label{Purpose: llm.PurposeDiagnosticQuestions, Topic: topic})

	var out questionsOutput
	if err := g.generateJSON(ctx, llm.Request{
		System:      questionsSystemPrompt,
		Messages:    llm.UserPrompt(buildQuestionsMessage(topic, g.config.QuestionCount)),
		Schema:      QuestionsSchema,
		MaxTokens:   g.config.QuestionsMaxTokens,
		Temperature: g.config.Temperature,
	}, &out); err != nil {
		return nil, err
	}

	kept, dropped := validQuestions(out.Questions)
	if len(dropped) > 0 {
		g.log.Warn("dropped invalid questions", "topic", topic, "dropped", len(dropped), "first", dropped[0].Error())
	}
	if len(kept) == 0 {
		return nil, &ValidationError{Check: "questions", Message: "no valid questions returned"}
	}
	return kept, nil
}

// AnalyzeResults scores the attempt and returns the learning path.
func (g *LLMGenerator) AnalyzeResults(ctx context.Context, topic string, answers []AnswerRecord) (*Analysis, error) {
	ctx = llm.WithLabel(ctx, llm.Label{Purpose: llm.PurposeDiagnosticAnalysis, Topic: topic})

	var out analysisOutput
	if err := g.generateJSON(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Messages:    llm.UserPrompt(buildAnalysisMessage(topic, answers)),
		Schema:      AnalysisSchema,
		MaxTokens:   g.config.AnalysisMaxTokens,
		Temperature: g.config.Temperature,
	}, &out); err != nil {
		return nil, err
	}

	score, err := checkScore(out.OverallScore)
	if err != nil {
		return nil, err
	}
	modules := make([]Module, len(out.LearningPath))
	for i, m := range out.LearningPath {
		modules[i] = Module{Step: strings.TrimSpace(m.Step), Description: strings.TrimSpace(m.Description)}
	}
	if err := checkLearningPath(modules); err != nil {
		return nil, err
	}

	return &Analysis{
		Strengths:    cleanStrings(out.Strengths),
		Weaknesses:   cleanStrings(out.Weaknesses),
		LearningPath: modules,
		OverallScore: score,
	}, nil
}

// GenerateModuleContent returns the lesson for module.
func (g *LLMGenerator) GenerateModuleContent(ctx context.Context, topic, module string) (*ModuleContent, error) {
	ctx = llm.WithLabel(ctx, llm.Label{Purpose: llm.PurposeModuleContent, Topic: topic})

	var out ModuleContent
	if err := g.generateJSON(ctx, llm.Request{
		System:      moduleSystemPrompt,
		Messages:    llm.UserPrompt(buildModuleMessage(topic, module)),
		Schema:      ModuleContentSchema,
		MaxTokens:   g.config.ModuleMaxTokens,
		Temperature: g.config.Temperature,
	}, &out); err != nil {
		return nil, err
	}

	if strings.TrimSpace(out.Explanation) == "" {
		return nil, &ValidationError{Check: "module-explanation", Message: "explanation is empty"}
	}
	if err := checkPractice(out.Practice); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateModuleTips never fails; any error yields FallbackTip.
func (g *LLMGenerator) GenerateModuleTips(ctx context.Context, topic, module string) string {
	ctx = llm.WithLabel(ctx, llm.Label{Purpose: llm.PurposeModuleTip, Topic: topic})

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      tipSystemPrompt,
		Messages:    llm.UserPrompt(buildTipMessage(topic, module)),
		MaxTokens:   g.config.TipMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		g.log.Debug("tip generation failed", "topic", topic, "module", module, "error", err)
		return FallbackTip
	}

	tip := strings.Trim(strings.TrimSpace(string(resp.Content)), `"`)
	if tip == "" {
		return FallbackTip
	}
	return tip
}

// GenerateSubjects suggests subjects for degree.
func (g *LLMGenerator) GenerateSubjects(ctx context.Context, degree string) ([]string, error) {
	ctx = llm.WithLabel(ctx, llm.Label{Purpose: llm.PurposeOnboardingSubjects, Topic: degree})

	var out subjectsOutput
	if err := g.generateJSON(ctx, llm.Request{
		System:      subjectsSystemPrompt,
		Messages:    llm.UserPrompt(buildSubjectsMessage(degree)),
		Schema:      SubjectsSchema,
		MaxTokens:   g.config.SubjectsMaxTokens,
		Temperature: g.config.Temperature,
	}, &out); err != nil {
		return nil, err
	}

	subjects := dedupe(cleanStrings(out.Subjects))
	if len(subjects) == 0 {
		return nil, &ValidationError{Check: "subjects", Message: "no subjects returned"}
	}
	return subjects, nil
}

func (g *LLMGenerator) generateJSON(ctx context.Context, req llm.Request, v any) error {
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("LLM generation failed: %w", err)
	}
	if err := json.Unmarshal(resp.Content, v); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return nil
}

// IsContractViolation reports whether err means the model answered but
// its output was unusable.
func IsContractViolation(err error) bool {
	var (
		verr *ValidationError
		inv  *llm.ErrInvalidResponse
	)
	return errors.As(err, &verr) || errors.As(err, &inv)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
