package engine

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/kuisku/kuisku/internal/quiz"
)

// Rejection records why a batch item was not accepted.
type Rejection struct {
	Index    int
	Question string
	Err      error
}

// BatchResult holds accepted items in input order and the rejected ones.
type BatchResult struct {
	Items    []quiz.ValidatedItem
	Rejected []Rejection
}

// ItemSeed derives the PCG seed pair for one batch item from the batch seed,
// the item's position and its question, so results do not depend on
// scheduling.
func ItemSeed(seed uint64, index int, question string) (uint64, uint64) {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s", seed, index, question)))
	return binary.LittleEndian.Uint64(h[:8]), binary.LittleEndian.Uint64(h[8:16])
}

// ProcessBatch verifies items in parallel. A rejected item never aborts the
// batch; only context cancellation returns an error.
func (p *Processor) ProcessBatch(ctx context.Context, items []quiz.RawCandidateItem, seed uint64) (BatchResult, error) {
	type outcome struct {
		item quiz.ValidatedItem
		err  error
	}
	results := make([]outcome, len(items))

	limit := p.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewPCG(ItemSeed(seed, i, items[i].Question)))
			v, err := p.Process(items[i], rnd)
			results[i] = outcome{item: v, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, fmt.Errorf("process batch: %w", err)
	}

	var res BatchResult
	for i, r := range results {
		if r.err != nil {
			res.Rejected = append(res.Rejected, Rejection{
				Index:    i,
				Question: items[i].Question,
				Err:      r.err,
			})
			continue
		}
		res.Items = append(res.Items, r.item)
	}
	p.Logger.Debug("batch processed",
		"total", len(items),
		"accepted", len(res.Items),
		"rejected", len(res.Rejected),
	)
	return res, nil
}
