package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterAppName = "kuisku"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter's
// OpenAI-compatible endpoint. Every request carries attribution headers.
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
	app := cfg.AppName
	if app == "" {
		app = defaultOpenRouterAppName
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Transport: &attributionTransport{title: app, referer: cfg.Referer},
		},
	})
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionTransport adds the X-Title and HTTP-Referer headers
// OpenRouter uses to attribute traffic to an app.
type attributionTransport struct {
	title   string
	referer string
	base    http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", t.title)
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	return base.RoundTrip(req)
}
