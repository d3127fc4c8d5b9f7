package play

import "github.com/kuisku/kuisku/internal/store"

// quizCreatedMsg is sent when the quiz and its taken questions are stored.
type quizCreatedMsg struct {
	Quiz *store.Quiz
	Err  error
}

// answerRecordedMsg is sent when an answer has been persisted.
type answerRecordedMsg struct {
	Index   int
	Correct bool
	Err     error
}

// quizFinishedMsg is sent when the final score has been stored.
type quizFinishedMsg struct {
	Quiz *store.Quiz
	Err  error
}
