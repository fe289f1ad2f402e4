// Package llm talks to hosted language models and returns JSON that has
// already been checked against the caller's schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is one model backend, possibly wrapped in decorators such as
// WithRetry or WithLogging.
type Provider interface {
	// Generate runs a single completion. With req.Schema set, a nil error
	// means Response.Content is JSON that passed the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model name, e.g. "gpt-4o-mini".
	ModelID() string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// UserPrompt wraps text as a one-turn conversation. All tutor calls are
// single-turn.
func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}

// Schema is a named JSON Schema for structured output. Names are
// kebab-case ("diagnostic-questions") and key the compiled-schema cache,
// so two different definitions must not share one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Request struct {
	System   string
	Messages []Message

	// Schema is nil for free-text calls such as module tips.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

type Response struct {
	// Content holds validated JSON for schema requests and plain text
	// otherwise.
	Content json.RawMessage

	// Model is what the vendor reports having served, which can differ
	// from ModelID for aliases.
	Model string

	StopReason StopReason
	Usage      Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
