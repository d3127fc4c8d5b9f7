// Package synth builds the final set of four answer options for a question
// around a derived or externally supplied correct answer.
package synth

import (
	"math"
	"strconv"
	"strings"

	"github.com/kuisku/kuisku/internal/catalog"
	"github.com/kuisku/kuisku/internal/quiz"
)

// maxDistractorAttempts bounds perturbation retries before falling back to
// plain integers.
const maxDistractorAttempts = 20

// Rand is the randomness synthesis draws from. *rand.Rand from math/rand/v2
// satisfies it; inject a seeded source for reproducible output.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Synthesizer produces option sets. It is not safe for concurrent use
// because Rand is not; create one per item.
type Synthesizer struct {
	Rand    Rand
	Catalog *catalog.Catalog
}

// New returns a Synthesizer drawing from rnd.
func New(cat *catalog.Catalog, rnd Rand) *Synthesizer {
	return &Synthesizer{Rand: rnd, Catalog: cat}
}

// Synthesize returns exactly four distinct options and the correct answer,
// which is always one of them. When d was derived, its answer overrides the
// external one; otherwise the external answer is trusted.
func (s *Synthesizer) Synthesize(question string, d quiz.DerivationResult, external []string, externalAnswer string) ([]string, string) {
	var (
		options []string
		answer  string
	)
	switch {
	case !d.Found:
		answer = strings.TrimSpace(externalAnswer)
		options = s.trusted(external, answer)
	case d.Type == quiz.TypeNumeric:
		answer = strings.TrimSpace(d.Answer)
		options = s.numeric(external, answer)
	default:
		answer = strings.TrimSpace(d.Answer)
		options = s.curated(question, d, external, answer)
	}

	options = s.ensureInvariant(options, answer)
	s.Rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options, answer
}

// numeric keeps the external options that look like numbers, adds the
// answer and fills the rest with nearby values.
func (s *Synthesizer) numeric(external []string, answer string) []string {
	seen := make(map[string]bool)
	var opts []string
	add := func(o string) bool {
		k := s.valueKey(o)
		if seen[k] {
			return false
		}
		seen[k] = true
		opts = append(opts, o)
		return true
	}

	answerKey := s.valueKey(answer)
	for _, o := range cleaned(external) {
		if !s.isNumericOption(o) {
			continue
		}
		// A differently spelled copy of the answer would be a second correct option.
		if s.valueKey(o) == answerKey && o != answer {
			continue
		}
		add(o)
	}

	opts = s.insertAnswer(opts, answer)
	seen = make(map[string]bool, len(opts))
	for _, o := range opts {
		seen[s.valueKey(o)] = true
	}

	base := s.baseValue(answer)
	for attempt := 0; len(opts) < quiz.OptionCount; attempt++ {
		if attempt < maxDistractorAttempts {
			add(quiz.FormatNumber(s.perturb(base)))
			continue
		}
		n := 1 + s.Rand.IntN(100)
		for !add(strconv.Itoa(n)) {
			n++
		}
	}

	if len(opts) > quiz.OptionCount {
		opts = s.sampleKeeping(opts, answer, quiz.OptionCount)
	}
	return opts
}

// perturb moves base by a step that scales with its magnitude.
func (s *Synthesizer) perturb(base float64) float64 {
	sign := 1.0
	if s.Rand.IntN(2) == 0 {
		sign = -1
	}
	abs := math.Abs(base)
	switch {
	case abs >= 1000:
		return base + sign*float64(1+s.Rand.IntN(3))*100
	case abs >= 100:
		return base + sign*float64(1+s.Rand.IntN(5))*10
	case abs >= 10:
		return base + sign*float64(1+s.Rand.IntN(3))
	default:
		hi := math.Max(1, 0.1*abs)
		return base + sign*(0.1+s.Rand.Float64()*(hi-0.1))
	}
}

func (s *Synthesizer) baseValue(answer string) float64 {
	if v, ok := quiz.ParseNumber(answer); ok {
		return v
	}
	if v, ok := s.Catalog.MagnitudeValue(answer); ok {
		return float64(v)
	}
	return float64(10 + s.Rand.IntN(91))
}

func (s *Synthesizer) isNumericOption(o string) bool {
	if quiz.IsNumber(o) {
		return true
	}
	_, ok := s.Catalog.MagnitudeValue(o)
	return ok
}

// valueKey identifies options by numeric value so "8", "8.0" and "8,00"
// count as the same option, as do "1000" and "seribuan".
func (s *Synthesizer) valueKey(o string) string {
	if v, ok := quiz.ParseNumber(o); ok {
		return quiz.FormatNumber(v)
	}
	if v, ok := s.Catalog.MagnitudeValue(o); ok {
		return strconv.Itoa(v)
	}
	return "text:" + o
}

// curated builds options for definition, comparison and sequence answers
// from the curated option set, the extractor's pool and synthetic fillers.
func (s *Synthesizer) curated(question string, d quiz.DerivationResult, external []string, answer string) []string {
	known := s.Catalog.Options(question)

	var opts []string
	for _, o := range cleaned(external) {
		if contains(known, o) {
			opts = append(opts, o)
		}
	}
	opts = s.insertAnswer(opts, answer)

	opts = s.fillFrom(opts, known)
	opts = s.fillFrom(opts, s.Catalog.Pool(d.Extractor))

	for attempt := 0; len(opts) < quiz.OptionCount; attempt++ {
		var filler string
		if d.Type == quiz.TypeSequence && attempt < maxDistractorAttempts {
			filler = s.perturbSequence(answer)
		}
		if filler == "" || contains(opts, filler) {
			filler = s.genericOption(opts)
		}
		opts = append(opts, filler)
	}

	if len(opts) > quiz.OptionCount {
		opts = s.sampleKeeping(opts, answer, quiz.OptionCount)
	}
	return opts
}

// fillFrom appends entries of pool in random order until opts is full.
func (s *Synthesizer) fillFrom(opts, pool []string) []string {
	if len(opts) >= quiz.OptionCount || len(pool) == 0 {
		return opts
	}
	var remaining []string
	for _, p := range pool {
		p = strings.TrimSpace(p)
		if p != "" && !contains(opts, p) && !contains(remaining, p) {
			remaining = append(remaining, p)
		}
	}
	s.Rand.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	for _, r := range remaining {
		if len(opts) >= quiz.OptionCount {
			break
		}
		opts = append(opts, r)
	}
	return opts
}

// perturbSequence shifts one term of a space-separated sequence by one.
func (s *Synthesizer) perturbSequence(answer string) string {
	parts := strings.Fields(answer)
	if len(parts) == 0 {
		return ""
	}
	i := s.Rand.IntN(len(parts))
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return ""
	}
	if s.Rand.IntN(2) == 0 {
		n--
	} else {
		n++
	}
	out := make([]string, len(parts))
	copy(out, parts)
	out[i] = strconv.Itoa(n)
	return strings.Join(out, " ")
}

// genericOption returns an unused "Opsi N" label.
func (s *Synthesizer) genericOption(opts []string) string {
	n := 1 + s.Rand.IntN(100)
	for contains(opts, "Opsi "+strconv.Itoa(n)) {
		n++
	}
	return "Opsi " + strconv.Itoa(n)
}

// trusted handles questions no extractor recognized: the external answer
// and options are used as given, reduced or padded to four.
func (s *Synthesizer) trusted(external []string, answer string) []string {
	opts := cleaned(external)
	if len(opts) == 0 {
		return []string{answer, "Opsi 1", "Opsi 2", "Opsi 3"}
	}
	if len(opts) > quiz.OptionCount {
		opts = s.sample(opts, quiz.OptionCount)
	}

	given := len(opts)
	for n := len(opts) + 1; len(opts) < quiz.OptionCount; n++ {
		label := "Opsi generik " + strconv.Itoa(n)
		if !contains(opts, label) {
			opts = append(opts, label)
		}
	}

	if !contains(opts, answer) {
		// Prefer overwriting padding so real external options survive.
		if given < len(opts) {
			opts[given+s.Rand.IntN(len(opts)-given)] = answer
		} else {
			opts[s.Rand.IntN(len(opts))] = answer
		}
	}
	return opts
}

// insertAnswer adds answer to opts, appending when there is room and
// otherwise replacing a random option.
func (s *Synthesizer) insertAnswer(opts []string, answer string) []string {
	if contains(opts, answer) {
		return opts
	}
	if len(opts) < quiz.OptionCount {
		return append(opts, answer)
	}
	opts[s.Rand.IntN(len(opts))] = answer
	return opts
}

// sampleKeeping returns n options drawn at random that include answer.
func (s *Synthesizer) sampleKeeping(opts []string, answer string, n int) []string {
	others := make([]string, 0, len(opts))
	for _, o := range opts {
		if o != answer {
			others = append(others, o)
		}
	}
	out := s.sample(others, n-1)
	return append(out, answer)
}

func (s *Synthesizer) sample(opts []string, n int) []string {
	out := make([]string, len(opts))
	copy(out, opts)
	s.Rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ensureInvariant repairs any remaining violation: blanks, duplicates,
// a missing answer or the wrong count.
func (s *Synthesizer) ensureInvariant(opts []string, answer string) []string {
	out := make([]string, 0, quiz.OptionCount)
	for _, o := range opts {
		o = strings.TrimSpace(o)
		if (o == "" && o != answer) || contains(out, o) {
			continue
		}
		out = append(out, o)
	}
	if !contains(out, answer) {
		if len(out) >= quiz.OptionCount {
			out[len(out)-1] = answer
		} else {
			out = append(out, answer)
		}
	}
	if len(out) > quiz.OptionCount {
		out = s.sampleKeeping(out, answer, quiz.OptionCount)
	}
	for len(out) < quiz.OptionCount {
		out = append(out, s.genericOption(out))
	}
	return out
}

// cleaned trims options and drops blanks and duplicates, keeping order.
func cleaned(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		o = strings.TrimSpace(o)
		if o == "" || contains(out, o) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
