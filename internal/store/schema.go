package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// textSize marks unbounded text columns, matching ent's field.Text.
const textSize = 2147483647

var (
	// DiagnosticQuestionsColumns holds the columns for the "diagnostic_questions" table.
	DiagnosticQuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "attempt_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Size: textSize},
		{Name: "question_text", Type: field.TypeString, Size: textSize},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_answer", Type: field.TypeString, Size: textSize},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	DiagnosticQuestionsTable = &schema.Table{
		Name:       "diagnostic_questions",
		Columns:    DiagnosticQuestionsColumns,
		PrimaryKey: []*schema.Column{DiagnosticQuestionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "diagnosticquestion_attempt_id", Columns: []*schema.Column{DiagnosticQuestionsColumns[1]}},
		},
	}

	// UserAnswersColumns holds the columns for the "user_answers" table.
	UserAnswersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "attempt_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Size: textSize},
		{Name: "question_text", Type: field.TypeString, Size: textSize},
		{Name: "selected_answer", Type: field.TypeString, Size: textSize},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "created_at", Type: field.TypeTime},
	}
	UserAnswersTable = &schema.Table{
		Name:       "user_answers",
		Columns:    UserAnswersColumns,
		PrimaryKey: []*schema.Column{UserAnswersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "useranswer_attempt_id", Columns: []*schema.Column{UserAnswersColumns[1]}},
		},
	}

	// LearningPathsColumns holds the columns for the "learning_paths" table.
	LearningPathsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "attempt_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Size: textSize},
		{Name: "strengths", Type: field.TypeJSON},
		{Name: "weaknesses", Type: field.TypeJSON},
		{Name: "learning_path", Type: field.TypeJSON},
		{Name: "overall_score", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	LearningPathsTable = &schema.Table{
		Name:       "learning_paths",
		Columns:    LearningPathsColumns,
		PrimaryKey: []*schema.Column{LearningPathsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "learningpath_user_id_topic_created_at",
				Columns: []*schema.Column{LearningPathsColumns[2], LearningPathsColumns[3], LearningPathsColumns[8]},
			},
		},
	}

	// ModuleProgressColumns holds the columns for the "module_progress" table.
	ModuleProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString, Size: textSize},
		{Name: "completed", Type: field.TypeBool, Default: false},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	ModuleProgressTable = &schema.Table{
		Name:       "module_progress",
		Columns:    ModuleProgressColumns,
		PrimaryKey: []*schema.Column{ModuleProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "moduleprogress_user_id_module_id",
				Unique:  true,
				Columns: []*schema.Column{ModuleProgressColumns[1], ModuleProgressColumns[2]},
			},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Nullable: true},
	}
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
	}

	// EventSequencesColumns holds the columns for the "event_sequences" table.
	EventSequencesColumns = []*schema.Column{
		{Name: "stream", Type: field.TypeString},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	EventSequencesTable = &schema.Table{
		Name:       "event_sequences",
		Columns:    EventSequencesColumns,
		PrimaryKey: []*schema.Column{EventSequencesColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		DiagnosticQuestionsTable,
		UserAnswersTable,
		LearningPathsTable,
		ModuleProgressTable,
		LLMRequestEventsTable,
		EventSequencesTable,
	}
)
