package content

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// QuestionCount is how many questions are requested per attempt.
	QuestionCount int

	// Token budgets per call kind.
	QuestionsMaxTokens int
	AnalysisMaxTokens  int
	ModuleMaxTokens    int
	TipMaxTokens       int
	SubjectsMaxTokens  int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		QuestionCount:      QuestionCount,
		QuestionsMaxTokens: 2048,
		AnalysisMaxTokens:  1536,
		ModuleMaxTokens:    3072,
		TipMaxTokens:       128,
		SubjectsMaxTokens:  256,
		Temperature:        0.7,
	}
}
