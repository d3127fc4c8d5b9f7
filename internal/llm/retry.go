package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient provider failures with capped
// exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p so transient failures are retried per cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

type retryClass int

const (
	retryNever retryClass = iota
	retryOnce
	retryAlways
)

// classify sorts an error by how it may be retried. Truncated output is
// final: the caller repairs what was returned instead of asking again.
func classify(err error) retryClass {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		auth    *ErrUnauthorized
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retryNever
	case errors.As(err, &maxTok), errors.As(err, &auth):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryAlways
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		lastErr     error
		usedInvalid bool
	)
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if usedInvalid {
				return nil, err
			}
			usedInvalid = true
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before the attempt after the given one. A
// rate limit with a Retry-After hint wins over the schedule.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := math.Min(
		float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)),
		float64(r.config.MaxWait),
	)
	// ±20% jitter
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(math.Max(wait, 0))
}
