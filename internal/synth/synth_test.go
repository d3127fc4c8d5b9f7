package synth

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuisku/kuisku/internal/catalog"
	"github.com/kuisku/kuisku/internal/quiz"
)

func newTestSynth(seed uint64) *Synthesizer {
	return New(catalog.Default(), rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func requireValid(t *testing.T, question string, opts []string, answer string) {
	t.Helper()
	item := quiz.ValidatedItem{Question: question, Options: opts, CorrectAnswer: answer}
	require.NoError(t, item.Check(), "options %q answer %q", opts, answer)
}

func numeric(answer string) quiz.DerivationResult {
	return quiz.DerivationResult{Answer: answer, Found: true, Type: quiz.TypeNumeric, Extractor: "expression"}
}

func TestSynthesizeNumericKeepsNumericExternals(t *testing.T) {
	s := newTestSynth(1)
	opts, answer := s.Synthesize("Hasil dari 5 + 3 adalah...", numeric("8"),
		[]string{" 8 ", "9", "delapan", "10", "", "7"}, "9")

	assert.Equal(t, "8", answer)
	requireValid(t, "q", opts, answer)
	assert.ElementsMatch(t, []string{"8", "9", "10", "7"}, opts)
}

func TestSynthesizeNumericDropsSpelledCopiesOfAnswer(t *testing.T) {
	s := newTestSynth(2)
	opts, answer := s.Synthesize("2 kg = ... gram", numeric("2000"),
		[]string{"2000.0", "2000,00", "200", "20"}, "2000")

	requireValid(t, "q", opts, answer)
	assert.NotContains(t, opts, "2000.0")
	assert.NotContains(t, opts, "2000,00")
	assert.Contains(t, opts, "200")
	assert.Contains(t, opts, "20")
}

func TestSynthesizeNumericDistractorsNeverEqualAnswer(t *testing.T) {
	cat := catalog.Default()
	answers := []string{"8", "0.75", "2000", "seribuan", "-3", "1500", "0", "12.5", "1/2"}
	for _, answer := range answers {
		for seed := uint64(0); seed < 50; seed++ {
			s := newTestSynth(seed)
			opts, got := s.Synthesize("q", numeric(answer), nil, "")
			requireValid(t, "q", opts, got)

			want := s.valueKey(answer)
			matches := 0
			for _, o := range opts {
				if s.valueKey(o) == want {
					matches++
				}
				assert.True(t, quiz.IsNumber(o) || isMagnitude(cat, o), "non-numeric option %q for %q", o, answer)
			}
			assert.Equal(t, 1, matches, "answer %q seed %d options %q", answer, seed, opts)
		}
	}
}

func isMagnitude(cat *catalog.Catalog, o string) bool {
	_, ok := cat.MagnitudeValue(o)
	return ok
}

func TestSynthesizeNumericTrimsExcess(t *testing.T) {
	s := newTestSynth(3)
	opts, answer := s.Synthesize("q", numeric("5"),
		[]string{"1", "2", "3", "4", "6", "7"}, "")

	requireValid(t, "q", opts, answer)
	assert.Contains(t, opts, "5")
}

func TestSynthesizeDefinitionUsesCuratedSet(t *testing.T) {
	d := quiz.DerivationResult{Answer: "celcius", Found: true, Type: quiz.TypeDefinition, Extractor: "definition"}
	for seed := uint64(0); seed < 20; seed++ {
		s := newTestSynth(seed)
		opts, answer := s.Synthesize("Satuan suhu adalah...", d, []string{"kelvin", "meter", "liter"}, "meter")

		assert.Equal(t, "celcius", answer)
		requireValid(t, "q", opts, answer)
		assert.ElementsMatch(t, []string{"celcius", "fahrenheit", "kelvin", "reamur"}, opts)
	}
}

func TestSynthesizeComparison(t *testing.T) {
	d := quiz.DerivationResult{Answer: "=", Found: true, Type: quiz.TypeComparison, Extractor: "comparison"}

	s := newTestSynth(4)
	opts, answer := s.Synthesize("1/2 ... 0,5 =", d, nil, "")
	requireValid(t, "q", opts, answer)
	assert.ElementsMatch(t, []string{"=", ">", "<", "!="}, opts)

	d.Answer = ">"
	opts, answer = s.Synthesize("3/4 ... 0,5 =", d, []string{">", "<"}, ">")
	requireValid(t, "q", opts, answer)
	assert.Subset(t, opts, []string{"=", ">", "<"})
	generic := 0
	for _, o := range opts {
		if strings.HasPrefix(o, "Opsi ") {
			generic++
		}
	}
	assert.Equal(t, 1, generic)
}

func TestSynthesizePlaceValueUsesPool(t *testing.T) {
	d := quiz.DerivationResult{Answer: "ratusan", Found: true, Type: quiz.TypeDefinition, Extractor: "place-value"}
	pool := catalog.Default().Pool("place-value")
	for seed := uint64(0); seed < 20; seed++ {
		s := newTestSynth(seed)
		opts, answer := s.Synthesize("Nilai tempat angka 5 pada bilangan 2.541 adalah", d, nil, "")
		requireValid(t, "q", opts, answer)
		assert.Subset(t, pool, opts)
	}
}

func TestSynthesizeSequenceFillers(t *testing.T) {
	d := quiz.DerivationResult{Answer: "11 13 15 17 19", Found: true, Type: quiz.TypeSequence, Extractor: "parity-sequence"}
	s := newTestSynth(5)
	opts, answer := s.Synthesize("Bilangan ganjil antara 10 dan 20 adalah", d, []string{"11 13 15", "12 14 16 18"}, "")

	requireValid(t, "q", opts, answer)
	for _, o := range opts {
		if o == answer || strings.HasPrefix(o, "Opsi ") {
			continue
		}
		assert.Len(t, strings.Fields(o), 5, "filler %q should perturb one term", o)
	}
}

func TestSynthesizeTrusted(t *testing.T) {
	unknown := quiz.DerivationResult{Type: quiz.TypeUnknown}

	tests := []struct {
		name     string
		external []string
		answer   string
		check    func(t *testing.T, opts []string)
	}{
		{
			name:     "empty inputs",
			external: nil,
			answer:   "",
			check: func(t *testing.T, opts []string) {
				assert.ElementsMatch(t, []string{"", "Opsi 1", "Opsi 2", "Opsi 3"}, opts)
			},
		},
		{
			name:     "answer without options",
			external: []string{"  ", ""},
			answer:   "Soekarno",
			check: func(t *testing.T, opts []string) {
				assert.ElementsMatch(t, []string{"Soekarno", "Opsi 1", "Opsi 2", "Opsi 3"}, opts)
			},
		},
		{
			name:     "padding keeps real options",
			external: []string{"Hatta", "Sjahrir"},
			answer:   "Soekarno",
			check: func(t *testing.T, opts []string) {
				assert.Contains(t, opts, "Hatta")
				assert.Contains(t, opts, "Sjahrir")
			},
		},
		{
			name:     "excess options sampled",
			external: []string{"a", "b", "c", "d", "e", "f"},
			answer:   "f",
			check: func(t *testing.T, opts []string) {
				assert.Subset(t, []string{"a", "b", "c", "d", "e", "f"}, opts)
			},
		},
		{
			name:     "duplicates removed",
			external: []string{"a", " a", "a ", "b"},
			answer:   "b",
			check: func(t *testing.T, opts []string) {
				assert.Contains(t, opts, "a")
				assert.Contains(t, opts, "Opsi generik 3")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 10; seed++ {
				s := newTestSynth(seed)
				opts, answer := s.Synthesize("Siapa presiden pertama?", unknown, tt.external, tt.answer)
				assert.Equal(t, strings.TrimSpace(tt.answer), answer)
				requireValid(t, "q", opts, answer)
				tt.check(t, opts)
			}
		})
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	d := numeric("42")
	a, _ := newTestSynth(7).Synthesize("q", d, []string{"40"}, "")
	b, _ := newTestSynth(7).Synthesize("q", d, []string{"40"}, "")
	assert.Equal(t, a, b)
}

func TestEnsureInvariant(t *testing.T) {
	s := newTestSynth(8)
	tests := [][]string{
		{"a", "a", "a", "a"},
		{"x", "y", "z", "w", "v"},
		{" ", "", "x"},
		nil,
	}
	for i, in := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			out := s.ensureInvariant(in, "x")
			requireValid(t, "q", out, "x")
		})
	}
}
