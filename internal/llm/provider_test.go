package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/pathmind/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"question_text":"Q"}`)})

	_, err := mock.Generate(context.Background(), Request{Schema: testSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeModuleTip)
	if p := PurposeFrom(ctx); p != PurposeModuleTip {
		t.Fatalf("expected %q, got %q", PurposeModuleTip, p)
	}

	ctx = WithLabel(ctx, Label{Purpose: PurposeModuleContent, Topic: "Rust"})
	if l := LabelFrom(ctx); l.Purpose != PurposeModuleContent || l.Topic != "Rust" {
		t.Fatalf("unexpected label %+v", l)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "gemini without key", cfg: Config{Provider: ProviderGemini}, wantErr: "PATHMIND_LLM_GEMINI_API_KEY"},
		{name: "gemini with key", cfg: Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}},
		{name: "anthropic without key", cfg: Config{Provider: ProviderAnthropic}, wantErr: "PATHMIND_LLM_ANTHROPIC_API_KEY"},
		{name: "openai with key", cfg: Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk-test"}}},
		{name: "openrouter without key", cfg: Config{Provider: ProviderOpenRouter}, wantErr: "PATHMIND_LLM_OPENROUTER_API_KEY"},
		{name: "mock needs no key", cfg: Config{Provider: ProviderMock}},
		{name: "unknown provider", cfg: Config{Provider: "unknown"}, wantErr: "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}
}

type recordingEventRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (r *recordingEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func TestWithLogging_RecordsEvents(t *testing.T) {
	repo := &recordingEventRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"tip":"x"}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: errors.New("boom")},
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"tip":`), Err: errors.New("eof")}},
	)
	p := WithLogging(mock, ProviderGemini, repo, nil)
	ctx := WithLabel(context.Background(), Label{Purpose: PurposeModuleTip, Topic: "Go"})

	if _, err := p.Generate(ctx, Request{System: "sys", Messages: UserPrompt("hi")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error to pass through")
	}

	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected invalid response to pass through")
	}

	if len(repo.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(repo.events))
	}
	ok := repo.events[0]
	if ok.Provider != ProviderGemini || ok.Purpose != PurposeModuleTip || ok.Topic != "Go" || !ok.Success || ok.InputTokens != 7 {
		t.Fatalf("unexpected event %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]") || ok.ResponseBody != `{"tip":"x"}` {
		t.Fatalf("bodies not captured: %+v", ok)
	}
	if failed := repo.events[1]; failed.Success || failed.ErrorMessage != "boom" {
		t.Fatalf("unexpected failure event %+v", failed)
	}
	if invalid := repo.events[2]; invalid.ResponseBody != `{"tip":` {
		t.Fatalf("rejected output not kept: %+v", invalid)
	}
}

type countingObserver struct {
	calls int
	ok    int
}

func (o *countingObserver) ObserveLLM(_, _ string, ok bool, _ time.Duration) {
	o.calls++
	if ok {
		o.ok++
	}
}

func TestNewProvider_MockPipeline(t *testing.T) {
	obs := &countingObserver{}
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	cfg.Retry = retryConfig()

	p, err := NewProvider(context.Background(), cfg, &recordingEventRepo{}, nil, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}

	// The empty mock fails every attempt; metrics see one logical call.
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error from empty mock")
	}
	if obs.calls != 1 || obs.ok != 0 {
		t.Fatalf("expected one failed observation, got %+v", obs)
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestMockProvider_ScriptedStops(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "Not a topic I can teach.", Stop: StopRefused},
		MockResponse{Text: `{"question_text":"Q"`, Stop: StopMaxTokens},
		MockResponse{Text: "Keep going!", Usage: Usage{InputTokens: 2, OutputTokens: 3}},
	)

	if _, err := mock.Generate(context.Background(), Request{}); !IsRejected(err) {
		t.Fatalf("expected refusal, got %v", err)
	}
	var maxTok *ErrMaxTokensExceeded
	if _, err := mock.Generate(context.Background(), Request{Schema: testSchema()}); !errors.As(err, &maxTok) {
		t.Fatalf("expected truncation, got %v", err)
	}
	resp, err := mock.Generate(WithPurpose(context.Background(), PurposeModuleTip), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != "Keep going!" || resp.Usage.TotalTokens != 5 || resp.StopReason != StopEnd {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := mock.PurposeLog(); got[2] != PurposeModuleTip || got[0] != "unknown" {
		t.Fatalf("unexpected purposes %v", got)
	}
}
