package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_Attempts(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"tip":"Keep going"}`)}
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	garbled := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	truncated := MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}}
	limited := MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}

	tests := []struct {
		name    string
		script  []MockResponse
		calls   int
		wantErr bool
	}{
		{"first try", []MockResponse{ok}, 1, false},
		{"transient then ok", []MockResponse{down, ok}, 2, false},
		{"rate limited then ok", []MockResponse{limited, ok}, 2, false},
		{"gives up after max attempts", []MockResponse{down, down, down, ok}, 3, true},
		{"truncation is final", []MockResponse{truncated, ok}, 1, true},
		{"invalid output retried once", []MockResponse{garbled, garbled, ok}, 2, true},
		{"invalid output then ok", []MockResponse{garbled, ok}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.calls {
				t.Fatalf("expected %d calls, got %d", tt.calls, mock.CallCount())
			}
			if !tt.wantErr && string(resp.Content) != `{"tip":"Keep going"}` {
				t.Fatalf("unexpected content: %s", resp.Content)
			}
		})
	}
}

func TestRetry_KeepsErrorType(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}})

	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T", err)
	}

	mock = NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{Err: &ErrProviderUnavailable{}})
	_, err = WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
	if !IsUnavailable(err) {
		t.Fatalf("exhausted retries must return the last error, got %T", err)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"tip":"Keep going"}`)},
	)
	p := WithRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	_, err := p.Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	mock := NewMockProvider()
	p := WithRetry(mock, retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"tip":"Keep going"}`)})
	p := WithRetry(mock, RetryConfig{})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 5*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if p.ModelID() != "slow" {
		t.Fatalf("expected 'slow', got %q", p.ModelID())
	}

	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Fatal("non-positive timeout must not wrap")
	}
}

func TestErrorClassifiers(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", &ErrRateLimit{Err: errors.New("429")})
	if !IsRateLimited(wrapped) || IsUnavailable(wrapped) {
		t.Fatal("expected wrapped rate limit to classify as rate limited only")
	}
	if !IsUnavailable(&ErrProviderUnavailable{}) {
		t.Fatal("expected unavailable")
	}
}

func TestRetry_RejectionsNotRetried(t *testing.T) {
	for _, rejection := range []error{
		&ErrRequestRejected{Status: 401, Err: errors.New("bad key")},
		&ErrRefused{Content: "I can't help with that."},
	} {
		mock := NewMockProvider(MockResponse{Err: rejection}, MockResponse{Content: json.RawMessage(`{}`)})
		p := WithRetry(mock, retryConfig())

		if _, err := p.Generate(context.Background(), Request{}); !IsRejected(err) {
			t.Fatalf("expected rejection, got %v", err)
		}
		if mock.CallCount() != 1 {
			t.Fatalf("%T: expected 1 call (no retry), got %d", rejection, mock.CallCount())
		}
	}
}

func TestHintedBackOff(t *testing.T) {
	h := &hintedBackOff{next: backoff.NewConstantBackOff(time.Second)}
	h.hint = 3 * time.Second
	if got := h.NextBackOff(); got != 3*time.Second {
		t.Fatalf("expected the hint, got %s", got)
	}
	if got := h.NextBackOff(); got != time.Second {
		t.Fatalf("hint must apply once, got %s", got)
	}
}
