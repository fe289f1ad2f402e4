package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → timeout → metrics → retry → logging → base. Every attempt is
// recorded as an event; metrics see one observation per logical call.
// eventRepo, log and obs may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger, obs Observer) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)
	measured := WithMetrics(retried, obs)

	return WithTimeout(measured, cfg.Timeout), nil
}
