package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/store"
)

// LoggingProvider records every request it forwards in the event log
// and the application log. It sits innermost in the decorator chain, so
// each retry attempt is its own event.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      *logger.Logger
}

// WithLogging wraps p. provider names the vendor ("gemini", "openai",
// ...) stored with each event. events may be nil.
func WithLogging(p Provider, provider string, events store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: provider, events: events, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := l.event(LabelFrom(ctx), req, resp, err, time.Since(start))
	fields := []any{"purpose", ev.Purpose, "topic", ev.Topic, "model", ev.Model, "latency_ms", ev.LatencyMs}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, "error", err)...)
	} else {
		l.log.Debug("llm request", append(fields, "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)...)
	}

	// Recording is best effort and outlives a cancelled caller.
	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); logErr != nil {
			l.log.Warn("failed to record LLM request event", "purpose", ev.Purpose, "error", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) event(label Label, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     label.Purpose,
		Topic:       label.Topic,
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		// Keep what the model said even when it was unusable.
		var (
			ref    *ErrRefused
			maxTok *ErrMaxTokensExceeded
			inv    *ErrInvalidResponse
		)
		switch {
		case errors.As(err, &ref):
			ev.ResponseBody = ref.Content
		case errors.As(err, &maxTok):
			ev.ResponseBody = string(maxTok.Content)
		case errors.As(err, &inv):
			ev.ResponseBody = string(inv.Content)
		}
	}
	return ev
}

// transcript renders req the way `pathmind llm view` shows it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
