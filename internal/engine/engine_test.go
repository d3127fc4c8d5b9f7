package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuisku/kuisku/internal/quiz"
)

func newTestProcessor() *Processor {
	return New(DefaultConfig(), nil)
}

func seeded(n uint64) *rand.Rand {
	return rand.New(rand.NewPCG(n, n+1))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrRejected) {
		t.Error("expected errors.Is(err, ErrRejected)")
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "option-set"}
	require.Len(t, cfg.Validators, len(names))
	for i, v := range cfg.Validators {
		assert.Equal(t, names[i], v.Name())
	}
	assert.Positive(t, cfg.Concurrency)
}

func TestProcess_DerivedAnswerOverridesSuggestion(t *testing.T) {
	p := newTestProcessor()
	item := quiz.RawCandidateItem{
		Question:        "Hasil dari 5 + 3 adalah...",
		Options:         []string{"7", "9", "10", "11"},
		SuggestedAnswer: "9",
		HasSuggestion:   true,
	}

	got, err := p.Process(item, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, "8", got.CorrectAnswer)
	assert.Contains(t, got.Options, "8")
	require.NoError(t, got.Check())
}

func TestProcess_UnknownTrustsSuggestion(t *testing.T) {
	p := newTestProcessor()
	item := quiz.RawCandidateItem{
		Question:        "Ibu kota Indonesia adalah",
		Options:         []string{"Jakarta", "Bandung", "Surabaya", "Medan"},
		SuggestedAnswer: "Jakarta",
		HasSuggestion:   true,
	}

	got, err := p.Process(item, seeded(2))
	require.NoError(t, err)
	assert.Equal(t, "Jakarta", got.CorrectAnswer)
	assert.ElementsMatch(t, item.Options, got.Options)
}

func TestProcess_Rejections(t *testing.T) {
	p := newTestProcessor()

	tests := []struct {
		name      string
		item      quiz.RawCandidateItem
		validator string
	}{
		{
			name:      "empty question",
			item:      quiz.RawCandidateItem{Question: "  ", Options: []string{"a"}, SuggestedAnswer: "a", HasSuggestion: true},
			validator: "structural",
		},
		{
			name:      "question too long",
			item:      quiz.RawCandidateItem{Question: strings.Repeat("a", 501), SuggestedAnswer: "a", HasSuggestion: true},
			validator: "structural",
		},
		{
			name:      "no answer",
			item:      quiz.RawCandidateItem{Question: "Siapa penemu lampu?", Options: []string{"Edison", "Tesla"}},
			validator: "option-set",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(tt.item, seeded(3))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRejected)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.validator, verr.Validator)
		})
	}
}

func TestOptionSetValidator(t *testing.T) {
	v := &OptionSetValidator{}
	valid := quiz.ValidatedItem{Question: "q", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: "2"}
	assert.Nil(t, v.Validate(valid))

	tests := []quiz.ValidatedItem{
		{Question: "q", Options: []string{"1", "2", "3"}, CorrectAnswer: "2"},
		{Question: "q", Options: []string{"1", "2", "3", "3 "}, CorrectAnswer: "2"},
		{Question: "q", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: "5"},
		{Question: "q", Options: []string{"1", "", "3", "4"}, CorrectAnswer: "1"},
		{Question: "q", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: " "},
	}
	for i, item := range tests {
		if err := v.Validate(item); err == nil {
			t.Errorf("case %d: expected rejection for %+v", i, item)
		}
	}
}

func sampleItems() []quiz.RawCandidateItem {
	return []quiz.RawCandidateItem{
		{Question: "Hasil dari 5 + 3 adalah...", Options: []string{"8", "7", "6", "9"}, SuggestedAnswer: "8", HasSuggestion: true},
		{Question: "", Options: []string{"1"}},
		{Question: "2 kg = ... gram", Options: []string{"200", "20"}, SuggestedAnswer: "200", HasSuggestion: true},
		{Question: "Modus dari data 5, 7, 5, 8, 9 adalah", SuggestedAnswer: "7", HasSuggestion: true},
		{Question: "1/2 ... 0,5 =", Options: []string{">", "<"}, SuggestedAnswer: ">", HasSuggestion: true},
		{Question: "Bilangan ganjil antara 10 dan 20 adalah"},
		{Question: "Satuan suhu adalah...", Options: []string{"kelvin", "meter"}, SuggestedAnswer: "kelvin", HasSuggestion: true},
	}
}

func TestProcessBatch_OrderAndRejections(t *testing.T) {
	p := newTestProcessor()
	items := sampleItems()

	res, err := p.ProcessBatch(context.Background(), items, 42)
	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.ErrorIs(t, res.Rejected[0].Err, ErrRejected)

	answers := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		require.NoError(t, it.Check())
		answers = append(answers, it.CorrectAnswer)
	}
	assert.Equal(t, []string{"8", "2000", "5", "=", "11 13 15 17 19", "celcius"}, answers)
}

func TestProcessBatch_Reproducible(t *testing.T) {
	items := sampleItems()

	sequential := New(Config{Validators: DefaultConfig().Validators, Concurrency: 1}, nil)
	parallel := New(Config{Validators: DefaultConfig().Validators, Concurrency: 16}, nil)

	a, err := sequential.ProcessBatch(context.Background(), items, 7)
	require.NoError(t, err)
	b, err := parallel.ProcessBatch(context.Background(), items, 7)
	require.NoError(t, err)
	assert.Equal(t, a.Items, b.Items)

	c, err := parallel.ProcessBatch(context.Background(), items, 8)
	require.NoError(t, err)
	require.Len(t, c.Items, len(a.Items))
	for i := range c.Items {
		assert.Equal(t, a.Items[i].CorrectAnswer, c.Items[i].CorrectAnswer)
	}
}

func TestProcessBatch_Cancelled(t *testing.T) {
	p := newTestProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessBatch(ctx, sampleItems(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessBatch_Empty(t *testing.T) {
	res, err := newTestProcessor().ProcessBatch(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Rejected)
}

func TestItemSeed(t *testing.T) {
	a1, a2 := ItemSeed(1, 0, "q")
	b1, b2 := ItemSeed(1, 0, "q")
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		x, y := ItemSeed(1, i, "q")
		key := fmt.Sprint(x, y)
		assert.False(t, seen[key], "seed collision at index %d", i)
		seen[key] = true
	}
}
