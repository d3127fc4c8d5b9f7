package dataset

import (
	"context"
	"strings"

	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/quiz"
)

// Verify passes rows through the engine as structured candidates with a
// trusted answer. Where the answer can be recomputed from the question the
// recomputed value wins; the report counts such corrections and lists rows
// the engine rejected.
func Verify(ctx context.Context, proc *engine.Processor, rows []Row, seed uint64) ([]Row, *Report, error) {
	candidates := make([]quiz.RawCandidateItem, len(rows))
	for i, r := range rows {
		candidates[i] = quiz.RawCandidateItem{
			Question:        r.Question,
			Options:         r.Options,
			SuggestedAnswer: r.CorrectAnswer,
			HasSuggestion:   true,
		}
	}

	res, err := proc.ProcessBatch(ctx, candidates, seed)
	if err != nil {
		return nil, nil, err
	}

	rejected := make(map[int]engine.Rejection, len(res.Rejected))
	for _, rej := range res.Rejected {
		rejected[rej.Index] = rej
	}

	report := &Report{TotalRows: len(rows), Errors: make([]RowError, 0)}
	out := make([]Row, 0, len(res.Items))
	next := 0
	for i, r := range rows {
		if rej, ok := rejected[i]; ok {
			report.fail(r.Line, r.Question, rej.Err.Error())
			continue
		}
		item := res.Items[next]
		next++
		if strings.TrimSpace(item.CorrectAnswer) != strings.TrimSpace(r.CorrectAnswer) {
			report.Corrected++
		}
		report.SuccessRows++
		out = append(out, Row{Line: r.Line, Topic: r.Topic, ValidatedItem: item})
	}
	return out, report, nil
}
