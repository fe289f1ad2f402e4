package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
	Topic   string    // exact topic match when set
}

// Attempt identifies one diagnostic attempt by one user on one topic.
type Attempt struct {
	ID     string
	UserID string
	Topic  string
}

// QuestionRecord is a persisted diagnostic question.
type QuestionRecord struct {
	QuestionText  string
	Options       []string
	CorrectAnswer string
	Difficulty    string
}

// AnswerRecord is a persisted answer to a diagnostic question.
type AnswerRecord struct {
	QuestionText   string
	SelectedAnswer string
	IsCorrect      bool
}

// ModuleRecord is one step of a stored learning path.
type ModuleRecord struct {
	Step        string `json:"step"`
	Description string `json:"description"`
}

// LearningPath is a stored analysis result.
type LearningPath struct {
	ID           int
	AttemptID    string
	UserID       string
	Topic        string
	Strengths    []string
	Weaknesses   []string
	Modules      []ModuleRecord
	OverallScore int
	CreatedAt    time.Time
}

// ModuleCompletion marks one module as finished by one user.
type ModuleCompletion struct {
	UserID      string
	ModuleID    string
	CompletedAt time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Topic        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// DiagnosticRepo stores diagnostic questions and answers.
type DiagnosticRepo interface {
	SaveQuestions(ctx context.Context, a Attempt, qs []QuestionRecord) error
	SaveAnswers(ctx context.Context, a Attempt, answers []AnswerRecord) error
}

// LearningPathRepo stores analysis results.
type LearningPathRepo interface {
	SaveLearningPath(ctx context.Context, lp *LearningPath) error

	// LatestLearningPath returns the most recent path for the user and
	// topic, or nil if none exists.
	LatestLearningPath(ctx context.Context, userID, topic string) (*LearningPath, error)

	// Topics lists the topics the user has a learning path for, most
	// recent first.
	Topics(ctx context.Context, userID string) ([]string, error)
}

// ProgressRepo stores module completions.
type ProgressRepo interface {
	// UpsertCompletion marks the module completed. Repeating it for the
	// same user and module keeps a single record.
	UpsertCompletion(ctx context.Context, c ModuleCompletion) error

	// CompletedModules returns the ids of every module the user finished.
	CompletedModules(ctx context.Context, userID string) ([]string, error)
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if the id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
