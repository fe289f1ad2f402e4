package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

func chatCompletion(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": finish,
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(
		"```json\n{\"question_text\":\"What does defer do?\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"correct_answer\":\"a\",\"difficulty\":\"Easy\"}\n```",
		"stop",
	))

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an expert tutor.",
		Messages:  UserPrompt("Generate a question."),
		Schema:    testSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
	var q map[string]any
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		t.Fatalf("fenced content was not normalized: %v (%s)", err, resp.Content)
	}
	if q["correct_answer"] != "a" {
		t.Fatalf("unexpected content %s", resp.Content)
	}
}

func TestOpenAIProvider_InvalidAgainstSchema(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(`{"question_text":"Q"}`, "stop"))

	_, err := p.Generate(context.Background(), Request{
		Messages: UserPrompt("Generate a question."),
		Schema:   testSchema(),
	})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_TruncatedStructuredOutput(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(`{"question_text":"Q","opt`, "length"))

	_, err := p.Generate(context.Background(), Request{
		Messages: UserPrompt("Generate a question."),
		Schema:   testSchema(),
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "tokens",
				"message": "Rate limit exceeded",
				"code":    "rate_limit_exceeded",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("test"), MaxTokens: 100})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "server_error", "message": "Internal server error"},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("test"), MaxTokens: 100})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestOpenAIModelMapping(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected 'gpt-4o-mini', got %q", p.ModelID())
	}

	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestOpenAIProvider_ContentFilter(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion("", "content_filter"))

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("q"), Schema: testSchema()})
	var ref *ErrRefused
	if !errors.As(err, &ref) {
		t.Fatalf("expected ErrRefused, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_UnknownModelRejected(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "model not found", "code": "model_not_found"},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("test")})
	var rej *ErrRequestRejected
	if !errors.As(err, &rej) || rej.Status != http.StatusNotFound {
		t.Fatalf("expected ErrRequestRejected(404), got: %T (%v)", err, err)
	}
}
