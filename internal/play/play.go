// Package play runs a stored quiz in the terminal.
package play

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/kuisku/kuisku/internal/store"
	"github.com/kuisku/kuisku/internal/ui/components"
	"github.com/kuisku/kuisku/internal/ui/layout"
)

// DefaultPlayer is used when the player submits an empty name.
const DefaultPlayer = "Pemain"

type phase int

const (
	phaseName phase = iota
	phaseLoading
	phaseQuestion
	phaseFeedback
	phaseSummary
	phaseError
)

// Model is the Bubble Tea model for one quiz run. It creates the quiz from
// the given input, records each answer through the QuizRepo and stores the
// score when the last question is answered or the player stops early.
type Model struct {
	ctx   context.Context
	repo  store.QuizRepo
	input store.QuizInput

	phase  phase
	name   components.TextInput
	quiz   *store.Quiz
	index  int
	choice components.MultiChoice

	correct     int
	lastCorrect bool
	pending     int  // answers not yet confirmed by the store
	finishing   bool // finish requested while answers were pending

	result *store.Quiz
	err    error

	width  int
	height int
}

var _ tea.Model = (*Model)(nil)

// New creates a Model. When in.Player is empty the player is asked for a
// name before the quiz is created.
func New(ctx context.Context, repo store.QuizRepo, in store.QuizInput) *Model {
	m := &Model{
		ctx:   ctx,
		repo:  repo,
		input: in,
		phase: phaseLoading,
	}
	if in.Player == "" {
		m.phase = phaseName
		m.name = components.NewTextInput("Nama kamu...", 32)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.phase == phaseName {
		return m.name.Init()
	}
	return m.createQuiz()
}

// Result returns the finished quiz, or nil if the run ended before the
// score was stored.
func (m *Model) Result() *store.Quiz {
	return m.result
}

// Err returns the error that ended the run, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case quizCreatedMsg:
		return m.handleCreated(msg)

	case answerRecordedMsg:
		return m.handleRecorded(msg)

	case quizFinishedMsg:
		return m.handleFinished(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseName {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseName:
		switch msg.String() {
		case "enter":
			m.input.Player = m.name.Value()
			if m.input.Player == "" {
				m.input.Player = DefaultPlayer
			}
			m.phase = phaseLoading
			return m, m.createQuiz()
		case "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd

	case phaseQuestion:
		if msg.String() == "esc" {
			return m, m.finish()
		}
		m.choice, _ = m.choice.Update(msg)
		if !m.choice.Submitted {
			return m, nil
		}
		m.lastCorrect = m.choice.IsCorrect()
		m.phase = phaseFeedback
		m.pending++
		return m, m.recordAnswer(m.index, m.choice.Chosen())

	case phaseFeedback:
		if msg.String() == "esc" || m.index+1 >= len(m.quiz.Questions) {
			return m, m.finish()
		}
		m.index++
		m.showQuestion()
		return m, nil

	case phaseSummary, phaseError:
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleCreated(msg quizCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.fail(fmt.Errorf("create quiz: %w", msg.Err))
	}
	if msg.Quiz == nil || len(msg.Quiz.Questions) == 0 {
		return m.fail(errors.New("quiz has no questions"))
	}
	m.quiz = msg.Quiz
	m.index = 0
	m.showQuestion()
	return m, nil
}

func (m *Model) handleRecorded(msg answerRecordedMsg) (tea.Model, tea.Cmd) {
	m.pending--
	if msg.Err != nil {
		return m.fail(fmt.Errorf("record answer: %w", msg.Err))
	}
	if msg.Correct {
		m.correct++
	}
	if msg.Index == m.index {
		m.lastCorrect = msg.Correct
	}
	if m.finishing && m.pending == 0 {
		return m, m.finish()
	}
	return m, nil
}

func (m *Model) handleFinished(msg quizFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.fail(fmt.Errorf("finish quiz: %w", msg.Err))
	}
	m.result = msg.Quiz
	m.phase = phaseSummary
	return m, nil
}

func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.phase = phaseError
	return m, nil
}

func (m *Model) showQuestion() {
	q := m.quiz.Questions[m.index]
	m.choice = components.NewMultiChoice(q.Question, q.Options, q.AnswerIndex())
	m.phase = phaseQuestion
}

func (m *Model) createQuiz() tea.Cmd {
	in := m.input
	return func() tea.Msg {
		q, err := m.repo.Create(m.ctx, in)
		return quizCreatedMsg{Quiz: q, Err: err}
	}
}

func (m *Model) recordAnswer(index int, answer string) tea.Cmd {
	takenID := m.quiz.Questions[index].ID
	return func() tea.Msg {
		correct, err := m.repo.RecordAnswer(m.ctx, takenID, answer)
		return answerRecordedMsg{Index: index, Correct: correct, Err: err}
	}
}

// finish stores the score once every submitted answer has been recorded.
func (m *Model) finish() tea.Cmd {
	m.phase = phaseLoading
	if m.pending > 0 {
		m.finishing = true
		return nil
	}
	m.finishing = false
	quizID := m.quiz.ID
	return func() tea.Msg {
		q, err := m.repo.Finish(m.ctx, quizID)
		return quizFinishedMsg{Quiz: q, Err: err}
	}
}

// Run starts the terminal UI and blocks until the player quits. It returns
// the finished quiz, or nil when the player left before it was scored.
func Run(ctx context.Context, repo store.QuizRepo, in store.QuizInput) (*store.Quiz, error) {
	p := tea.NewProgram(New(ctx, repo, in), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(*Model)
	if !ok {
		return nil, errors.New("unexpected model type")
	}
	return m.result, m.err
}

func (m *Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phaseName:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Mulai"},
			{Key: "Esc", Description: "Keluar"},
		}
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Pilih"},
			{Key: "A-D", Description: "Jawab"},
			{Key: "Enter", Description: "Jawab"},
			{Key: "Esc", Description: "Selesai"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Lanjut"},
			{Key: "Esc", Description: "Selesai"},
		}
	case phaseSummary, phaseError:
		return []layout.KeyHint{
			{Key: "any key", Description: "Keluar"},
		}
	}
	return nil
}
