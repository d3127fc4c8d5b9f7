package problemgen

// Config controls the behavior of the Generator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0). Generation
	// favours consistency, so the default is low.
	Temperature float64

	// StructuredOutput sends QuizBatchSchema with the request. Providers
	// then validate the response before it reaches the repair step, so a
	// malformed reply fails fast instead of being repaired.
	StructuredOutput bool

	// MaxCount caps GenerateInput.Count.
	MaxCount int

	// MaxSamples is the maximum number of reference items in the prompt.
	MaxSamples int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        2048,
		Temperature:      0.1,
		StructuredOutput: false,
		MaxCount:         20,
		MaxSamples:       3,
	}
}
