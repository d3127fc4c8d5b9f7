package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/kuisku/kuisku/internal/logger"
	"github.com/kuisku/kuisku/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

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
	case ProviderOllama:
		base, err = NewOllamaProvider(cfg.Ollama)
	case ProviderMock:
		base = NewOfflineProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if log != nil && cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = func(attempt int, wait time.Duration, err error) {
			log.Info("retrying llm request", "attempt", attempt, "wait", wait, "error", err)
		}
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewProviderFromEnv resolves configuration from the environment and
// builds the provider with NewProvider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *logger.Logger) (Provider, Config, error) {
	cfg := ResolveConfig()
	p, err := NewProvider(ctx, cfg, eventRepo, log)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}
