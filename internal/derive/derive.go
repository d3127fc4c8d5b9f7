// Package derive computes the correct answer of a quiz question directly
// from its text, using an ordered list of pattern-based extractors.
package derive

import (
	"regexp"
	"strings"

	"github.com/kuisku/kuisku/internal/catalog"
	"github.com/kuisku/kuisku/internal/quiz"
)

// Extractor recognizes one family of question phrasings.
type Extractor struct {
	// Name identifies the extractor in results and logs.
	Name string

	// Pattern is matched against the normalized question. When nil, Eval is
	// always called with a nil match.
	Pattern *regexp.Regexp

	// Type is assigned to answers this extractor produces.
	Type quiz.QuestionType

	// Eval computes the answer from the submatches and the normalized text.
	// Returning false passes the question on to the next extractor.
	Eval func(m []string, text string) (string, bool)
}

// Deriver runs extractors in order; the first one that produces an answer wins.
type Deriver struct {
	extractors []Extractor
}

// NewDeriver returns a Deriver using the given extractors in order.
func NewDeriver(extractors []Extractor) *Deriver {
	return &Deriver{extractors: extractors}
}

// Default returns a Deriver with the standard extractor chain.
func Default(cat *catalog.Catalog) *Deriver {
	return NewDeriver(DefaultExtractors(cat))
}

// Extractors returns the extractor chain in evaluation order.
func (d *Deriver) Extractors() []Extractor {
	return d.extractors
}

// Derive computes the answer for question. A question no extractor
// recognizes yields Found == false and TypeUnknown; that is not an error.
func (d *Deriver) Derive(question string) quiz.DerivationResult {
	text := normalize(question)
	if text == "" {
		return quiz.DerivationResult{Type: quiz.TypeUnknown}
	}
	for _, ex := range d.extractors {
		var m []string
		if ex.Pattern != nil {
			m = ex.Pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
		}
		answer, ok := ex.Eval(m, text)
		if !ok {
			continue
		}
		return quiz.DerivationResult{
			Answer:    answer,
			Found:     true,
			Type:      ex.Type,
			Extractor: ex.Name,
		}
	}
	return quiz.DerivationResult{Type: quiz.TypeUnknown}
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return spaceRe.ReplaceAllString(s, " ")
}
