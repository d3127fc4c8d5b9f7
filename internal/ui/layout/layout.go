package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kuisku/kuisku/internal/ui/theme"
)

// Smallest terminal the quiz screens render in.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Layar terlalu kecil!\n\nPerbesar terminal minimal\n%d x %d\n\nSekarang: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the top bar: the app name on the left, title
// centered and status (player, score) on the right.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Kuisku")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	middle := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0)
	center := lipgloss.PlaceHorizontal(middle, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Render(title))

	return theme.Bar.Width(width).Render(left + center + right)
}

// RenderFooter renders the bottom bar of key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return theme.Bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).Render(content),
		footer,
	)
}
