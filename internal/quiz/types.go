package quiz

import (
	"fmt"
	"strings"
)

// OptionCount is the number of answer options every validated item carries.
const OptionCount = 4

// RawCandidateItem is a question proposed by an external source (an LLM
// response or a dataset row) before any verification.
type RawCandidateItem struct {
	// Question is the free-form question text, e.g. "Hasil dari 5 + 3 adalah...".
	Question string `json:"question"`

	// Options are the externally proposed answer options. Any length is
	// accepted; synthesis reduces or pads them to exactly four.
	Options []string `json:"options"`

	// SuggestedAnswer is the externally proposed correct answer.
	// Only meaningful when HasSuggestion is true.
	SuggestedAnswer string `json:"correct_answer,omitempty"`

	// HasSuggestion reports whether the source supplied an answer at all.
	HasSuggestion bool `json:"-"`
}

// QuestionType classifies how option synthesis validates and generates
// options for a question.
type QuestionType string

const (
	TypeNumeric    QuestionType = "numeric"    // e.g. "8", "0.75", "1/2", "seribuan"
	TypeDefinition QuestionType = "definition" // e.g. "median", "puluhan"
	TypeComparison QuestionType = "comparison" // one of "=", ">", "<"
	TypeSequence   QuestionType = "sequence"   // e.g. "11 13 15 17 19"
	TypeUnknown    QuestionType = "unknown"    // no extractor matched
)

// DerivationResult is the outcome of independently computing a question's
// answer from its text.
type DerivationResult struct {
	// Answer is the computed correct answer. Empty when Found is false.
	Answer string

	// Found is false when no extractor recognized the question; synthesis
	// then trusts the external answer.
	Found bool

	// Type is assigned by the matching extractor, TypeUnknown otherwise.
	Type QuestionType

	// Extractor names the extractor that matched, for diagnostics and for
	// picking type-specific distractor pools.
	Extractor string
}

// ValidatedItem is a verified question: exactly four distinct options, one
// of which is the correct answer.
type ValidatedItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Check reports whether the item satisfies the option invariant.
func (v ValidatedItem) Check() error {
	if strings.TrimSpace(v.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if len(v.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(v.Options))
	}
	seen := make(map[string]bool, OptionCount)
	found := false
	answer := strings.TrimSpace(v.CorrectAnswer)
	for _, o := range v.Options {
		o = strings.TrimSpace(o)
		if seen[o] {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = true
		if o == answer {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("answer %q not found in options", v.CorrectAnswer)
	}
	return nil
}

// AnswerIndex returns the position of the correct answer in Options, or -1.
func (v ValidatedItem) AnswerIndex() int {
	answer := strings.TrimSpace(v.CorrectAnswer)
	for i, o := range v.Options {
		if strings.TrimSpace(o) == answer {
			return i
		}
	}
	return -1
}
