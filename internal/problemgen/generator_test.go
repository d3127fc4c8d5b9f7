package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/llm"
)

func newTestGenerator(mock *llm.MockProvider, cfg Config) *Generator {
	return New(mock, engine.New(engine.DefaultConfig(), nil), cfg, nil)
}

func TestGenerate_VerifiesAnswers(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"quiz": [
		{"question": "Hasil dari 5 + 3 adalah...", "options": ["7", "8", "9", "10"], "correct_answer": "9"},
		{"question": "", "options": ["1", "2", "3", "4"], "correct_answer": "1"}
	]}`)})
	gen := newTestGenerator(mock, DefaultConfig())

	batch, err := gen.Generate(context.Background(), GenerateInput{Topic: "penjumlahan", Level: "SD", Count: 2, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.ID == "" {
		t.Error("expected batch ID")
	}
	if batch.Candidates != 2 {
		t.Errorf("candidates = %d, want 2", batch.Candidates)
	}
	if len(batch.Items) != 1 {
		t.Fatalf("expected 1 accepted item, got %d", len(batch.Items))
	}
	item := batch.Items[0]
	if item.CorrectAnswer != "8" {
		t.Errorf("answer = %q, want the recomputed 8", item.CorrectAnswer)
	}
	if !slices.Contains(item.Options, "8") || len(item.Options) != 4 {
		t.Errorf("options = %q", item.Options)
	}
	if len(batch.Rejected) != 1 || batch.Rejected[0].Index != 1 {
		t.Errorf("expected item 1 rejected, got %+v", batch.Rejected)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`[{"question": "2 kg = ... gram", "options": ["20", "200", "2000", "0.002"]}]`)})
	cfg := DefaultConfig()
	cfg.StructuredOutput = true
	gen := newTestGenerator(mock, cfg)

	if _, err := gen.Generate(context.Background(), GenerateInput{Topic: "satuan", Count: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != QuizBatchSchema {
		t.Error("expected quiz-batch schema when structured output is on")
	}
	if req.Temperature != 0.1 {
		t.Errorf("temperature = %v", req.Temperature)
	}
	if req.System != systemPrompt {
		t.Error("expected system prompt")
	}
	if len(req.Messages) != 1 || !containsAll(req.Messages[0].Content, "TEPAT 20 soal", "Tingkat: SD") {
		t.Errorf("count must be capped and level defaulted: %q", req.Messages[0].Content)
	}
}

func TestGenerate_RepairsTruncatedOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrMaxTokensExceeded{Content: json.RawMessage(`[{"question": "2 kg = ... gram", "options": ["20", "200", "2000"`)},
	})
	gen := newTestGenerator(mock, DefaultConfig())

	batch, err := gen.Generate(context.Background(), GenerateInput{Topic: "satuan", Level: "SD", Count: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 1 || batch.Items[0].CorrectAnswer != "2000" {
		t.Fatalf("unexpected batch: %+v", batch.Items)
	}
}

func TestGenerate_Unparseable(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`maaf, saya tidak bisa`)})
	gen := newTestGenerator(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{Topic: "x", Count: 1})
	var pe *ErrUnparseable
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ErrUnparseable, got %T (%v)", err, err)
	}
}

func TestGenerate_NoValidItems(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`[]`)})
	gen := newTestGenerator(mock, DefaultConfig())

	batch, err := gen.Generate(context.Background(), GenerateInput{Topic: "x", Count: 3})
	if !errors.Is(err, engine.ErrNoValidItems) {
		t.Fatalf("expected ErrNoValidItems, got %v", err)
	}
	if batch == nil || len(batch.Items) != 0 {
		t.Fatalf("expected an empty batch alongside the error, got %+v", batch)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}})
	gen := newTestGenerator(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{Topic: "x", Count: 1})
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestGenerate_OfflineProvider(t *testing.T) {
	gen := New(llm.NewOfflineProvider(), engine.New(engine.DefaultConfig(), nil), DefaultConfig(), nil)

	batch, err := gen.Generate(context.Background(), GenerateInput{Topic: "campuran", Count: 5, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 5 {
		t.Fatalf("expected 5 items, got %d (rejected %+v)", len(batch.Items), batch.Rejected)
	}
	conv := batch.Items[1]
	if conv.CorrectAnswer != "2000" {
		t.Errorf("answer = %q, want 2000", conv.CorrectAnswer)
	}
	if len(conv.Options) != 4 || !slices.Contains(conv.Options, "2000") {
		t.Errorf("options = %q", conv.Options)
	}
	if batch.Items[4].CorrectAnswer != "median" {
		t.Errorf("definition answer = %q", batch.Items[4].CorrectAnswer)
	}
}

func TestGenerate_RejectsNonPositiveCount(t *testing.T) {
	gen := newTestGenerator(llm.NewMockProvider(), DefaultConfig())
	if _, err := gen.Generate(context.Background(), GenerateInput{Topic: "x"}); err == nil {
		t.Fatal("expected error for zero count")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	content := json.RawMessage(`[{"question": "Hasil dari 12 x 3 adalah...", "options": ["36"]}]`)
	run := func() []string {
		mock := llm.NewMockProvider(llm.MockResponse{Content: content})
		batch, err := newTestGenerator(mock, DefaultConfig()).Generate(context.Background(), GenerateInput{Topic: "x", Count: 1, Seed: 42})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return batch.Items[0].Options
	}
	if a, b := run(), run(); !slices.Equal(a, b) {
		t.Errorf("same seed produced %q and %q", a, b)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
