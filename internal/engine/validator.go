package engine

import (
	"errors"
	"fmt"

	"github.com/kuisku/kuisku/internal/quiz"
)

var (
	// ErrRejected matches every *ValidationError via errors.Is.
	ErrRejected = errors.New("item rejected")

	// ErrNoValidItems is returned by callers when a whole batch was rejected.
	ErrNoValidItems = errors.New("no valid questions")
)

// Validator checks a synthesized item before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "option-set".
	Name() string

	// Validate returns nil if the item passes.
	Validate(item quiz.ValidatedItem) *ValidationError
}

// ValidationError describes why an item failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrRejected
}
