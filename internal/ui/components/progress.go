package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Fraction    float64 // 0..1
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, fraction float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Fraction:    fraction,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// filled returns how many of n cells are filled.
func (p ProgressBar) filled(n int) int {
	return min(max(int(float64(n)*p.Fraction), 0), n)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(p.Width-lipgloss.Width(b.String())-percentWidth, 4)
	filled := p.filled(barWidth)

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)))

	if p.ShowPercent {
		pct := min(max(int(p.Fraction*100), 0), 100)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d%%", pct)))
	}
	return b.String()
}
