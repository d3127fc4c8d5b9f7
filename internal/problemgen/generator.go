package problemgen

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/llm"
	"github.com/kuisku/kuisku/internal/logger"
)

// Purpose labels generation requests in the LLM event log.
const Purpose = "quiz-gen"

// Generator produces verified quiz batches from an LLM provider.
type Generator struct {
	provider  llm.Provider
	processor *engine.Processor
	config    Config
	log       *logger.Logger
}

// New creates a Generator. A nil logger discards output.
func New(provider llm.Provider, processor *engine.Processor, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: provider, processor: processor, config: cfg, log: log}
}

// Generate asks the model for input.Count questions, repairs and parses the
// reply, and verifies every candidate. It returns engine.ErrNoValidItems
// when nothing survives verification.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*Batch, error) {
	if input.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", input.Count)
	}
	if g.config.MaxCount > 0 && input.Count > g.config.MaxCount {
		input.Count = g.config.MaxCount
	}
	if input.Level == "" {
		input.Level = LevelSD
	}

	batchID := uuid.NewString()
	ctx = llm.WithPurpose(ctx, Purpose)
	ctx = llm.WithBatch(ctx, batchID)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.StructuredOutput {
		req.Schema = QuizBatchSchema
	}

	content, err := g.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates, err := ParseCandidates(content)
	if err != nil {
		g.log.Warn("unparseable model output", "error", err, "bytes", len(content))
		return nil, err
	}
	g.log.Debug("candidates parsed", "count", len(candidates), "requested", input.Count)

	res, err := g.processor.ProcessBatch(ctx, candidates, input.Seed)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:         batchID,
		Topic:      input.Topic,
		Level:      input.Level,
		Items:      res.Items,
		Rejected:   res.Rejected,
		Candidates: len(candidates),
	}
	if len(batch.Items) > input.Count {
		batch.Items = batch.Items[:input.Count]
	}
	if len(batch.Items) == 0 {
		return batch, engine.ErrNoValidItems
	}
	return batch, nil
}

// generate calls the provider. A truncated or schema-invalid reply still
// carries text worth repairing, so its content is returned instead of the
// error.
func (g *Generator) generate(ctx context.Context, req llm.Request) (string, error) {
	resp, err := g.provider.Generate(ctx, req)
	if err == nil {
		return string(resp.Content), nil
	}
	if content, ok := llm.PartialContent(err); ok {
		g.log.Warn("model output incomplete, repairing", "error", err, "bytes", len(content))
		return string(content), nil
	}
	return "", fmt.Errorf("LLM generation failed: %w", err)
}
