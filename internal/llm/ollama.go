package llm

const (
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	defaultOllamaModel   = "llama3"

	// ollamaAPIKey is sent because the OpenAI client requires a key;
	// Ollama ignores it.
	ollamaAPIKey = "ollama"
)

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible endpoint.
type OllamaProvider struct {
	*OpenAIProvider
}

// NewOllamaProvider creates a provider targeting an Ollama server.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  ollamaAPIKey,
		Model:   model,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}
	// Local models ignore strict json_schema more often than not; the
	// caller repairs and validates the text instead.
	inner.strictSchema = false
	return &OllamaProvider{OpenAIProvider: inner}, nil
}
