package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model replied with nothing usable or
// with JSON that does not match the requested schema. Content holds the
// reply as received.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrUnauthorized indicates the provider rejected the API key. Retrying
// cannot help.
type ErrUnauthorized struct {
	Err error
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("LLM provider rejected credentials: %v", e.Err)
}

func (e *ErrUnauthorized) Unwrap() error { return e.Err }

// fromStatus classifies an SDK error by the HTTP status it carried. A
// zero status means the request never got a response.
func fromStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &ErrUnauthorized{Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// ErrMaxTokensExceeded indicates the reply was cut off at the token limit.
// Content holds the truncated text; a quiz batch cut mid-item is usually
// still repairable.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
	Limit   int
}

func (e *ErrMaxTokensExceeded) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("LLM response truncated at %d tokens", e.Limit)
	}
	return "LLM response truncated: max tokens exceeded"
}

// errEmptyContent marks a reply without any text.
var errEmptyContent = errors.New("empty response content")

// PartialContent returns the reply text carried by a truncated or invalid
// response error. It reports false for every other error and for replies
// without text.
func PartialContent(err error) (json.RawMessage, bool) {
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) && len(maxTok.Content) > 0 {
		return maxTok.Content, true
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) && len(invalid.Content) > 0 {
		return invalid.Content, true
	}
	return nil, false
}
