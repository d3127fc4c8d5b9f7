package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a language model and returns its reply.
type Provider interface {
	// Generate runs req. With a Schema the reply is JSON checked against
	// it; otherwise Content holds whatever text the model produced.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the model requests are sent to.
	ModelID() string
}

// Request is a single-turn prompt. Quiz generation sends one user
// message under a fixed system prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output. Providers without native
	// support fall back to plain JSON mode.
	Schema *Schema

	MaxTokens int

	// Temperature is in [0, 1]. Zero keeps the provider default.
	Temperature float64
}

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Role is who sent a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document, for example QuizBatchSchema.
// Name doubles as the Anthropic tool name and the OpenAI schema name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end", "max_tokens" or "error".
	StopReason string
}

// Usage counts the tokens a request consumed.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
