package play

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kuisku/kuisku/internal/ui/components"
	"github.com/kuisku/kuisku/internal/ui/layout"
	"github.com/kuisku/kuisku/internal/ui/theme"
)

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.render(), footer, m.width, m.height))
	return v
}

func (m *Model) title() string {
	if m.quiz == nil || m.phase == phaseSummary {
		return "Kuis"
	}
	return fmt.Sprintf("Soal %d/%d", m.index+1, len(m.quiz.Questions))
}

func (m *Model) status() string {
	if m.quiz == nil {
		return ""
	}
	return fmt.Sprintf("%s  ✓ %d", m.input.Player, m.correct)
}

// render returns the content area for the current phase.
func (m *Model) render() string {
	width := max(m.width-4, 40)

	switch m.phase {
	case phaseName:
		return theme.Title.Width(width).Render("Siapa namamu?") + "\n\n" +
			"  " + m.name.View()

	case phaseLoading:
		return theme.Hint.Render("  Menyiapkan...")

	case phaseError:
		return theme.Incorrect.Render("  Terjadi kesalahan") + "\n\n" +
			"  " + theme.Body.Render(m.err.Error())

	case phaseQuestion, phaseFeedback:
		var b strings.Builder
		done := m.index
		if m.phase == phaseFeedback {
			done++
		}
		b.WriteString(components.NewProgress("Kemajuan", done, len(m.quiz.Questions), width).View())
		b.WriteString("\n\n")
		b.WriteString(theme.Card.Width(width).Render(m.choice.View()))
		if m.phase == phaseFeedback {
			b.WriteString("\n\n")
			b.WriteString(m.renderFeedback())
		}
		return b.String()

	case phaseSummary:
		return m.renderSummary(width)
	}
	return ""
}

func (m *Model) renderFeedback() string {
	if m.lastCorrect {
		return theme.Correct.Render("  Benar!")
	}
	q := m.quiz.Questions[m.index]
	return theme.Incorrect.Render("  Kurang tepat.") + " " +
		theme.Body.Render(fmt.Sprintf("Jawaban yang benar: %s", q.CorrectAnswer))
}

func (m *Model) renderSummary(width int) string {
	q := m.result
	if q == nil {
		return ""
	}

	lines := []string{
		theme.Title.Width(width).Render("Kuis selesai!"),
		"",
		theme.Subtitle.Width(width).Render(fmt.Sprintf("%s · %s · %s", q.Player, q.Level, q.Topic)),
		"",
		lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Render(theme.Correct.Render(fmt.Sprintf("Skor %d dari %d", q.Score, q.Total))),
		"",
		components.NewProgress("Benar", q.Score, q.Total, width).View(),
	}
	return strings.Join(lines, "\n")
}
