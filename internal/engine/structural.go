package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kuisku/kuisku/internal/quiz"
)

// MaxQuestionLength is the longest accepted question, in characters.
const MaxQuestionLength = 500

// StructuralValidator checks that the question text is present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(item quiz.ValidatedItem) *ValidationError {
	text := strings.TrimSpace(item.Question)
	if text == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question is empty",
		}
	}
	if n := utf8.RuneCountInString(text); n > MaxQuestionLength {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question exceeds %d characters (%d)", MaxQuestionLength, n),
		}
	}
	return nil
}

// OptionSetValidator checks that there are exactly four distinct non-empty
// options and that the answer is one of them.
type OptionSetValidator struct{}

func (v *OptionSetValidator) Name() string { return "option-set" }

func (v *OptionSetValidator) Validate(item quiz.ValidatedItem) *ValidationError {
	if strings.TrimSpace(item.CorrectAnswer) == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "correct answer is empty",
		}
	}
	if len(item.Options) != quiz.OptionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("must have exactly %d options, got %d", quiz.OptionCount, len(item.Options)),
		}
	}
	for i, o := range item.Options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is empty", i+1),
			}
		}
	}
	if err := item.Check(); err != nil {
		return &ValidationError{
			Validator: v.Name(),
			Message:   err.Error(),
		}
	}
	return nil
}
