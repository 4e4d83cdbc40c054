package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/ui/theme"
)

// Field is a labelled single-line input built on bubbles/textinput.
type Field struct {
	Label string
	Model textinput.Model
}

// NewField creates an unfocused field. Secret fields echo a mask.
func NewField(label, placeholder string, secret bool, limit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if limit > 0 {
		ti.CharLimit = limit
	}
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return Field{Label: label, Model: ti}
}

// Focus focuses the field and returns the cursor blink command.
func (f *Field) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes focus.
func (f *Field) Blur() {
	f.Model.Blur()
}

// Focused reports whether the field has focus.
func (f Field) Focused() bool {
	return f.Model.Focused()
}

// Update forwards msg to the input.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// Value returns the current input value.
func (f Field) Value() string {
	return f.Model.Value()
}

// SetValue replaces the input value.
func (f *Field) SetValue(v string) {
	f.Model.SetValue(v)
}

// View renders the label above the input; the focused label is gold.
func (f Field) View(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	border := theme.Border
	if f.Focused() {
		labelStyle = labelStyle.Foreground(theme.Gold).Bold(true)
		border = theme.Primary
	}
	f.Model.SetWidth(max(width-4, 8))
	box := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(f.Model.View())
	return labelStyle.Render(f.Label) + "\n" + box
}
