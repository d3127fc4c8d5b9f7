package llm

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "ollama", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Local models are slow, so the default is 2m.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Points the client at a proxy.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.

	// HTTPClient replaces the SDK's default client when set.
	HTTPClient *http.Client
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"

	// AppName and Referer are sent as OpenRouter attribution headers.
	AppName string // Default: "kuisku"
	Referer string
}

// OllamaConfig holds configuration for a local Ollama server.
type OllamaConfig struct {
	Model   string // Default: "llama3"
	BaseURL string // Default: "http://localhost:11434/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// OnRetry, when set, is called before waiting for the next attempt.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultConfig returns a Config with sensible defaults. The default
// provider is a local Ollama server, which needs no API key.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOllama,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Ollama: OllamaConfig{
			Model:   defaultOllamaModel,
			BaseURL: defaultOllamaBaseURL,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 2 * time.Minute,
	}
}

// ConfigFromEnv builds a Config from KUISKU_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setFromEnv(&cfg.Provider, "KUISKU_LLM_PROVIDER")
	cfg.Provider = strings.ToLower(cfg.Provider)

	setFromEnv(&cfg.Anthropic.APIKey, "KUISKU_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "KUISKU_ANTHROPIC_MODEL")
	setFromEnv(&cfg.Anthropic.BaseURL, "KUISKU_ANTHROPIC_BASE_URL")

	setFromEnv(&cfg.OpenAI.APIKey, "KUISKU_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "KUISKU_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "KUISKU_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "KUISKU_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "KUISKU_GEMINI_MODEL")
	setFromEnv(&cfg.Gemini.BaseURL, "KUISKU_GEMINI_BASE_URL")

	setFromEnv(&cfg.OpenRouter.APIKey, "KUISKU_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "KUISKU_OPENROUTER_MODEL")
	setFromEnv(&cfg.OpenRouter.Referer, "KUISKU_OPENROUTER_REFERER")

	setFromEnv(&cfg.Ollama.Model, "KUISKU_OLLAMA_MODEL")
	setFromEnv(&cfg.Ollama.BaseURL, "KUISKU_OLLAMA_BASE_URL")

	if t := os.Getenv("KUISKU_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// ResolveConfig returns the configuration to use: explicit KUISKU_*
// settings win, then discovered vendor keys, then the local Ollama default.
func ResolveConfig() Config {
	if os.Getenv("KUISKU_LLM_PROVIDER") != "" {
		return ConfigFromEnv()
	}
	if cfg, ok := DiscoverConfig(); ok {
		env := ConfigFromEnv()
		cfg.Ollama = env.Ollama
		cfg.Timeout = env.Timeout
		return cfg
	}
	return ConfigFromEnv()
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("KUISKU_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("KUISKU_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("KUISKU_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("KUISKU_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("KUISKU_OLLAMA_BASE_URL must not be empty for the ollama provider")
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
