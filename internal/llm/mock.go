package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// OfflineQuiz is the reply of a provider built with NewOfflineProvider.
// It reads like typical model output: one wrong answer, one short option
// list and a numeric option where text is expected.
var OfflineQuiz = json.RawMessage(`{"quiz": [
  {"question": "Hasil dari 5 + 3 adalah...", "options": ["6", "7", "8", "9"], "correct_answer": "8"},
  {"question": "2 kg = ... gram", "options": ["20", "200", "2000"], "correct_answer": "200"},
  {"question": "Hasil dari 12 x 3 adalah...", "options": ["36", "33", "39", "30"], "correct_answer": "36"},
  {"question": "Bilangan ganjil antara 10 dan 20 adalah...", "options": ["11 13 15 17 19"], "correct_answer": "11 13 15 17 19"},
  {"question": "Nilai tengah dari data yang sudah diurutkan adalah...", "options": ["median", "modus", "mean", "jangkauan"], "correct_answer": "median"}
]}`)

// MockProvider is a deterministic Provider for tests and offline use.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	fallback  json.RawMessage
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewOfflineProvider creates a MockProvider that answers every request
// with OfflineQuiz once its queue is empty. It backs the "mock" provider
// setting so generation works without a model.
func NewOfflineProvider() *MockProvider {
	return &MockProvider{fallback: OfflineQuiz}
}

// Generate returns the next canned response. With an empty queue it
// returns the offline quiz, or ErrProviderUnavailable when there is none.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if m.fallback == nil {
			return nil, &ErrProviderUnavailable{Err: nil}
		}
		return &Response{
			Content:    m.fallback,
			Usage:      estimateUsage(req, m.fallback),
			Model:      "mock",
			StopReason: "end",
		}, nil
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// estimateUsage approximates token counts at four bytes per token.
func estimateUsage(req Request, content json.RawMessage) Usage {
	in := len(req.System)
	for _, msg := range req.Messages {
		in += len(msg.Content)
	}
	u := Usage{InputTokens: in / 4, OutputTokens: len(content) / 4}
	u.TotalTokens = u.InputTokens + u.OutputTokens
	return u
}
