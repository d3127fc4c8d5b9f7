//go:build cucumber

package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/kuisku/kuisku/internal/quiz"
	"github.com/kuisku/kuisku/internal/repair"
)

// TestVerificationScenarios runs the verification feature scenarios.
func TestVerificationScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "verification",
		ScenarioInitializer: InitializeVerificationScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeVerificationScenario wires steps for verification scenarios.
func InitializeVerificationScenario(ctx *godog.ScenarioContext) {
	state := &verificationState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a candidate question "([^"]*)" with options "([^"]*)" and answer "([^"]*)"$`, state.givenCandidate)
	ctx.Step(`^a candidate question "([^"]*)" with no options and no answer$`, state.givenBareCandidate)
	ctx.Step(`^a candidate question "([^"]*)" with no options and answer "([^"]*)"$`, state.givenCandidateAnswerOnly)
	ctx.Step(`^a candidate question "([^"]*)" with options "([^"]*)" and no answer$`, state.givenCandidateOptionsOnly)
	ctx.Step(`^the item is processed with seed (\d+)$`, state.whenProcessed)
	ctx.Step(`^the item is processed with seeds (\d+) to (\d+)$`, state.whenProcessedRange)
	ctx.Step(`^the item is accepted$`, state.thenAccepted)
	ctx.Step(`^the item is rejected by "([^"]*)"$`, state.thenRejectedBy)
	ctx.Step(`^the correct answer is "([^"]*)"$`, state.thenAnswer)
	ctx.Step(`^the options contain "([^"]*)"$`, state.thenOptionsContain)
	ctx.Step(`^every run has exactly one option equal to "([^"]*)"$`, state.thenExactlyOne)
	ctx.Step(`^the raw model output "(.*)"$`, state.givenRaw)
	ctx.Step(`^it is repaired twice$`, state.whenRepairedTwice)
	ctx.Step(`^both repairs are identical$`, state.thenRepairsIdentical)
	ctx.Step(`^the repaired text is valid JSON$`, state.thenRepairedValid)
}

type verificationState struct {
	proc    *Processor
	item    quiz.RawCandidateItem
	result  quiz.ValidatedItem
	err     error
	runs    []quiz.ValidatedItem
	raw     string
	repairs [2]string
}

// reset clears scenario state.
func (s *verificationState) reset() {
	*s = verificationState{proc: New(DefaultConfig(), nil)}
}

func splitOptions(list string) []string {
	var out []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (s *verificationState) givenCandidate(question, options, answer string) error {
	s.item = quiz.RawCandidateItem{Question: question, Options: splitOptions(options), SuggestedAnswer: answer, HasSuggestion: true}
	return nil
}

func (s *verificationState) givenBareCandidate(question string) error {
	s.item = quiz.RawCandidateItem{Question: question}
	return nil
}

func (s *verificationState) givenCandidateAnswerOnly(question, answer string) error {
	s.item = quiz.RawCandidateItem{Question: question, SuggestedAnswer: answer, HasSuggestion: true}
	return nil
}

func (s *verificationState) givenCandidateOptionsOnly(question, options string) error {
	s.item = quiz.RawCandidateItem{Question: question, Options: splitOptions(options)}
	return nil
}

func (s *verificationState) whenProcessed(seed int) error {
	s.result, s.err = s.proc.Process(s.item, seeded(uint64(seed)))
	return nil
}

func (s *verificationState) whenProcessedRange(from, to int) error {
	for seed := from; seed <= to; seed++ {
		v, err := s.proc.Process(s.item, seeded(uint64(seed)))
		if err != nil {
			return fmt.Errorf("seed %d: %w", seed, err)
		}
		s.runs = append(s.runs, v)
	}
	return nil
}

func (s *verificationState) thenAccepted() error {
	if s.err != nil {
		return fmt.Errorf("expected acceptance, got %w", s.err)
	}
	return s.result.Check()
}

func (s *verificationState) thenRejectedBy(name string) error {
	var verr *ValidationError
	if !errors.As(s.err, &verr) {
		return fmt.Errorf("expected a validation error, got %v", s.err)
	}
	if verr.Validator != name {
		return fmt.Errorf("rejected by %q, want %q", verr.Validator, name)
	}
	return nil
}

func (s *verificationState) thenAnswer(want string) error {
	if s.result.CorrectAnswer != want {
		return fmt.Errorf("correct answer %q, want %q", s.result.CorrectAnswer, want)
	}
	return nil
}

func (s *verificationState) thenOptionsContain(want string) error {
	for _, o := range s.result.Options {
		if o == want {
			return nil
		}
	}
	return fmt.Errorf("options %q do not contain %q", s.result.Options, want)
}

func (s *verificationState) thenExactlyOne(want string) error {
	for i, run := range s.runs {
		n := 0
		for _, o := range run.Options {
			if v, ok := quiz.ParseNumber(o); ok && quiz.FormatNumber(v) == want {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("run %d: %d options equal %q in %q", i, n, want, run.Options)
		}
	}
	return nil
}

func (s *verificationState) givenRaw(raw string) error {
	s.raw = raw
	return nil
}

func (s *verificationState) whenRepairedTwice() error {
	s.repairs[0] = repair.Repair(s.raw)
	s.repairs[1] = repair.Repair(s.repairs[0])
	return nil
}

func (s *verificationState) thenRepairsIdentical() error {
	if s.repairs[0] != s.repairs[1] {
		return fmt.Errorf("repairs differ: %q vs %q", s.repairs[0], s.repairs[1])
	}
	return nil
}

func (s *verificationState) thenRepairedValid() error {
	if !repair.Valid(s.repairs[0]) {
		return fmt.Errorf("not valid JSON: %q", s.repairs[0])
	}
	return nil
}
