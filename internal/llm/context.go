package llm

import "context"

type contextKey int

const (
	purposeKey contextKey = iota
	batchKey
)

// WithPurpose attaches a purpose label ("quiz-gen") to the context. The
// logging middleware stores it with each request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithBatch tags requests made with ctx with a generation batch ID so log
// lines can be matched to the batch they produced.
func WithBatch(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchKey, id)
}

// BatchFrom returns the batch ID attached by WithBatch, or "".
func BatchFrom(ctx context.Context) string {
	v, _ := ctx.Value(batchKey).(string)
	return v
}
