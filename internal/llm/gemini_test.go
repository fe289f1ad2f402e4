package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-lite", "gemini-2.0-flash-lite"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // pass-through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{"type": "string"},
			"difficulty":    map[string]any{"type": "string", "enum": []any{"Easy", "Medium", "Hard"}},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"overall_score": map[string]any{"type": "integer"},
		},
		"required": []any{"question_text", "options"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["overall_score"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for overall_score, got %s", schema.Properties["overall_score"].Type)
	}
	if len(schema.Properties["difficulty"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["difficulty"].Enum))
	}
	opts := schema.Properties["options"]
	if opts.Type != "ARRAY" || opts.Items.Type != "STRING" {
		t.Fatalf("unexpected options schema %+v", opts)
	}
	if opts.MinItems == nil || *opts.MinItems != 4 || opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Fatalf("expected item bounds of 4, got %v/%v", opts.MinItems, opts.MaxItems)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
