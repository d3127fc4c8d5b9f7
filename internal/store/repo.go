package store

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/kuisku/kuisku/internal/quiz"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match (empty = any)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int       `sql:"id"`
	Sequence     int64     `sql:"sequence"`
	Timestamp    time.Time `sql:"timestamp"`
	Provider     string    `sql:"provider"`
	Model        string    `sql:"model"`
	Purpose      string    `sql:"purpose"`
	InputTokens  int       `sql:"input_tokens"`
	OutputTokens int       `sql:"output_tokens"`
	LatencyMs    int64     `sql:"latency_ms"`
	Success      bool      `sql:"success"`
	ErrorMessage string    `sql:"error_message"`
	RequestBody  string    `sql:"request_body"`
	ResponseBody string    `sql:"response_body"`
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model ID.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Question is a verified item in the question bank.
type Question struct {
	ID        int64
	Level     string
	Topic     string
	Source    string
	CreatedAt time.Time
	quiz.ValidatedItem
}

// QuestionInput is a verified item to add to the bank with its topic.
type QuestionInput struct {
	Topic string
	quiz.ValidatedItem
}

// WithTopic tags every item with the same topic.
func WithTopic(topic string, items []quiz.ValidatedItem) []QuestionInput {
	out := make([]QuestionInput, len(items))
	for i, item := range items {
		out[i] = QuestionInput{Topic: topic, ValidatedItem: item}
	}
	return out
}

// QuestionRepo stores the question bank, partitioned by level.
type QuestionRepo interface {
	// ReplaceLevel deletes every question of level and inserts questions in
	// one transaction. A dataset re-import uses it to refresh a level.
	ReplaceLevel(ctx context.Context, level, source string, questions []QuestionInput) error

	// Add appends questions to level.
	Add(ctx context.Context, level, source string, questions []QuestionInput) error

	// Count returns the number of questions in level, or in the whole
	// bank when level is empty.
	Count(ctx context.Context, level string) (int, error)

	// Sample returns up to n questions of level, chosen with rnd.
	Sample(ctx context.Context, level string, n int, rnd *rand.Rand) ([]Question, error)
}

// QuizInput describes a quiz to create from already verified items.
type QuizInput struct {
	Player string
	Level  string
	Topic  string
	Items  []quiz.ValidatedItem
}

// TakenQuestion is one question as it appeared in a quiz.
type TakenQuestion struct {
	ID        int64
	QuizID    string
	Position  int
	Answer    string
	Answered  bool
	IsCorrect bool
	quiz.ValidatedItem
}

// Quiz is a stored quiz with its questions in presentation order.
type Quiz struct {
	ID        string
	Player    string
	Level     string
	Topic     string
	Total     int
	Score     int
	Finished  bool
	CreatedAt time.Time
	Questions []TakenQuestion
}

// QuizRepo stores quizzes and the answers given to them.
type QuizRepo interface {
	Create(ctx context.Context, in QuizInput) (*Quiz, error)

	// RecordAnswer stores answer for a taken question and reports
	// whether it was correct.
	RecordAnswer(ctx context.Context, takenID int64, answer string) (bool, error)

	// Finish marks the quiz finished and stores the number of correct answers.
	Finish(ctx context.Context, quizID string) (*Quiz, error)

	// List returns quizzes newest first, without their questions.
	List(ctx context.Context, limit int) ([]Quiz, error)

	// Get returns a quiz with its questions, or nil if it does not exist.
	Get(ctx context.Context, quizID string) (*Quiz, error)
}
