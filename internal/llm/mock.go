package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. Text is used as-is when set;
// otherwise Content is. Stop defaults to StopEnd.
type MockResponse struct {
	Content json.RawMessage
	Text    string
	Usage   Usage
	Stop    StopReason
	Err     error
}

// MockProvider replays scripted responses in order and records every
// request with its label. Replies go through the same refusal,
// truncation and schema checks as a vendor's.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
	Labels    []Label
}

// NewMockProvider creates a MockProvider with the given script.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next scripted response. An exhausted script
// looks like an outage.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.Labels = append(m.Labels, LabelFrom(ctx))

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	c := completion{text: next.Text, usage: next.Usage, model: "mock", stop: next.Stop}
	if c.text == "" {
		c.text = string(next.Content)
	}
	if c.stop == "" {
		c.stop = StopEnd
	}
	return finish(req, c)
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// PurposeLog returns the purposes seen so far.
func (m *MockProvider) PurposeLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Labels))
	for i, l := range m.Labels {
		out[i] = l.Purpose
	}
	return out
}
