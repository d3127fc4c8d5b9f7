package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kuisku/kuisku/internal/ui/theme"
)

// Progress draws a bar for Done out of Total steps followed by a
// "done/total" count. Width covers the label, bar and count.
type Progress struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewProgress creates a progress bar for done of total steps.
func NewProgress(label string, done, total, width int) Progress {
	return Progress{Label: label, Done: done, Total: total, Width: width}
}

// Fraction is Done/Total clamped to [0, 1]. An empty Total counts as 0.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

func (p Progress) View() string {
	var prefix string
	if p.Label != "" {
		prefix = theme.Body.Render(p.Label) + "  "
	}
	count := theme.Dimmed.Render(fmt.Sprintf("  %d/%d", p.Done, p.Total))

	bar := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(count), 4)
	filled := int(float64(bar) * p.Fraction())

	return prefix +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", bar-filled)) +
		count
}
