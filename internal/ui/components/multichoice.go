package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/ui/theme"
)

// OptionLabels are the keys shown before each option.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// OptionLabel returns the letter for option i.
func OptionLabel(i int) string {
	if i >= 0 && i < len(OptionLabels) {
		return OptionLabels[i]
	}
	return fmt.Sprint(i + 1)
}

// OptionGrid renders answer options two per row. Chosen is the recorded
// answer (-1 for none). When Revealed, the correct option turns green and
// a wrong choice turns red; otherwise the chosen option is highlighted.
type OptionGrid struct {
	Options  []string
	Chosen   int
	Correct  int
	Revealed bool
}

func (g OptionGrid) cell(i, width int) string {
	text := fmt.Sprintf("%s) %s", OptionLabel(i), g.Options[i])
	style := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text).
		Padding(0, 1)

	switch {
	case g.Revealed && i == g.Correct:
		style = style.BorderForeground(theme.Success).Foreground(theme.Success).Bold(true)
		text += "  ✓"
	case g.Revealed && i == g.Chosen:
		style = style.BorderForeground(theme.Error).Foreground(theme.Error).Bold(true)
		text += "  ✗"
	case g.Revealed:
		style = style.Foreground(theme.TextDim)
	case i == g.Chosen:
		style = style.BorderForeground(theme.Gold).Foreground(theme.Gold).Bold(true)
	}
	return style.Render(text)
}

// View renders the grid at the given total width.
func (g OptionGrid) View(width int) string {
	cellWidth := max((width-2)/2, 12)
	rows := make([]string, 0, (len(g.Options)+1)/2)
	for i := 0; i < len(g.Options); i += 2 {
		left := g.cell(i, cellWidth)
		if i+1 < len(g.Options) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", g.cell(i+1, cellWidth)))
		} else {
			rows = append(rows, left)
		}
	}
	return strings.Join(rows, "\n")
}
