package llm

import (
	"context"
	"time"
)

// Observer receives one observation per Generate call.
type Observer interface {
	ObserveLLM(purpose, model string, ok bool, d time.Duration)
}

type metricsProvider struct {
	inner Provider
	obs   Observer
}

// WithMetrics reports every call to obs. A nil obs returns p unchanged.
func WithMetrics(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &metricsProvider{inner: p, obs: obs}
}

func (m *metricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := m.inner.Generate(ctx, req)
	m.obs.ObserveLLM(PurposeFrom(ctx), m.inner.ModelID(), err == nil, time.Since(start))
	return resp, err
}

func (m *metricsProvider) ModelID() string {
	return m.inner.ModelID()
}
