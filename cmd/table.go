package cmd

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/kuisku/kuisku/internal/ui/theme"
)

// renderTable lays rows out under headers with a rule below the header
// and no outer border, so output stays greppable.
func renderTable(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).PaddingRight(2)
	cell := lipgloss.NewStyle().PaddingRight(2)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
