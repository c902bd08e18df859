package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/skillpilot/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → timeout → retry → logging → vendor, so each attempt is
// recorded and the whole call is bounded by cfg.Timeout. Logging is
// skipped when eventRepo is nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var (
		base Provider
		err  error
	)
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
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		base = WithLogging(base, eventRepo)
	}
	p := WithRetry(base, cfg.Retry)
	if cfg.Timeout > 0 {
		p = &timeoutProvider{Provider: p, timeout: cfg.Timeout}
	}
	return p, nil
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
