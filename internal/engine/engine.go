// Package engine turns raw candidate items into validated quiz items by
// deriving the answer, synthesizing options and running acceptance checks.
package engine

import (
	"strings"

	"github.com/kuisku/kuisku/internal/catalog"
	"github.com/kuisku/kuisku/internal/derive"
	"github.com/kuisku/kuisku/internal/logger"
	"github.com/kuisku/kuisku/internal/quiz"
	"github.com/kuisku/kuisku/internal/synth"
)

// Config holds tunable parameters for the processor.
type Config struct {
	// Validators run in order after synthesis. The first failure rejects
	// the item.
	Validators []Validator

	// Concurrency bounds the number of items ProcessBatch works on at once.
	Concurrency int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionSetValidator{},
		},
		Concurrency: 8,
	}
}

// Processor verifies candidate items. It holds no per-item state and is
// safe for concurrent use.
type Processor struct {
	Deriver     *derive.Deriver
	Catalog     *catalog.Catalog
	Validators  []Validator
	Concurrency int
	Logger      *logger.Logger
}

// New returns a Processor using the embedded catalog and the standard
// extractor chain.
func New(cfg Config, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	cat := catalog.Default()
	return &Processor{
		Deriver:     derive.Default(cat),
		Catalog:     cat,
		Validators:  cfg.Validators,
		Concurrency: cfg.Concurrency,
		Logger:      log,
	}
}

// Process verifies one item. rnd is used for distractor generation and
// option order; it must not be shared with concurrent callers.
// A rejected item returns a *ValidationError matching ErrRejected.
func (p *Processor) Process(item quiz.RawCandidateItem, rnd synth.Rand) (quiz.ValidatedItem, error) {
	d := p.Deriver.Derive(item.Question)

	suggested := ""
	if item.HasSuggestion {
		suggested = item.SuggestedAnswer
	}
	if d.Found {
		p.Logger.Debug("answer derived",
			"extractor", d.Extractor,
			"type", string(d.Type),
			"answer", d.Answer,
		)
		if item.HasSuggestion && strings.TrimSpace(suggested) != d.Answer {
			p.Logger.Info("suggested answer replaced",
				"question", item.Question,
				"suggested", suggested,
				"derived", d.Answer,
			)
		}
	}

	options, answer := synth.New(p.Catalog, rnd).Synthesize(item.Question, d, item.Options, suggested)
	out := quiz.ValidatedItem{
		Question:      strings.TrimSpace(item.Question),
		Options:       options,
		CorrectAnswer: answer,
	}

	for _, v := range p.Validators {
		if verr := v.Validate(out); verr != nil {
			p.Logger.Warn("item rejected",
				"validator", verr.Validator,
				"reason", verr.Message,
				"question", item.Question,
			)
			return quiz.ValidatedItem{}, verr
		}
	}
	return out, nil
}
