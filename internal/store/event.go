package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter orders LLM request events and recorded answers on one
// timeline, so a generation call can be placed against the answers given
// to its questions. The row lives in global_sequence.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// Next returns the current value and advances the counter.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	row := c.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
