package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterHeaders identify the app on OpenRouter's dashboards.
var openRouterHeaders = map[string]string{
	"HTTP-Referer": "https://github.com/abhisek/pathmind",
	"X-Title":      "Pathmind",
}

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
// Model ids are passed through untouched ("vendor/model").
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner, err := newOpenAICompatible(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openRouterHeaders)
	if err != nil {
		return nil, err
	}
	// Not every routed model supports strict schemas; responses are
	// validated locally either way.
	inner.strict = false

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range t.headers {
		r.Header.Set(k, v)
	}
	return t.base.RoundTrip(r)
}

func headerClient(headers map[string]string) *http.Client {
	return &http.Client{Transport: &headerTransport{headers: headers, base: http.DefaultTransport}}
}
