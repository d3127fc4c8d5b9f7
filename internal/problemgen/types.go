package problemgen

import (
	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/quiz"
)

// Levels accepted for generation and datasets.
const (
	LevelSD      = "SD"
	LevelSMP     = "SMP"
	LevelSMA     = "SMA"
	LevelUnknown = "Unknown"
)

// GenerateInput holds all context needed to generate a quiz batch.
type GenerateInput struct {
	// Topic is the subject the questions must cover, e.g. "pecahan".
	Topic string

	// Level is the school level the style should match: SD, SMP or SMA.
	Level string

	// Count is the number of questions requested.
	Count int

	// Samples are verified items of the same level shown to the model as
	// reference phrasings. Items that fail Check are skipped.
	Samples []quiz.ValidatedItem

	// Seed makes option synthesis reproducible. Zero is a valid seed.
	Seed uint64
}

// Batch is the verified outcome of one generation call.
type Batch struct {
	// ID identifies the batch in logs.
	ID    string
	Topic string
	Level string

	// Items are the accepted questions, in the order the model produced them.
	Items []quiz.ValidatedItem

	// Rejected lists candidates that failed verification.
	Rejected []engine.Rejection

	// Candidates is the number of items parsed from the response.
	Candidates int
}
