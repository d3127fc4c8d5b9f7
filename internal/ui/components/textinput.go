package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/kuisku/kuisku/internal/ui/theme"
)

// TextInput is a single-line prompt, used for the player's name.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a focused input limited to limit runes (0 for no
// limit).
func NewTextInput(placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = limit

	styles := textinput.DefaultDarkStyles()
	styles.Focused.Prompt = theme.Selected
	styles.Focused.Text = theme.Body
	styles.Focused.Placeholder = theme.Hint
	ti.SetStyles(styles)

	ti.Focus()
	return TextInput{Model: ti}
}

// Init starts the cursor blinking.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the entered text without surrounding spaces.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
