package components

import (
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/ui/theme"
)

// Cursor marks the highlighted row of a list.
const Cursor = "▸ "

// ContentWidth returns the width of a centered content column inside a
// frame of the given width.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Panel renders content in a rounded card with a bold title line.
func Panel(title, content string, width int) string {
	body := content
	if title != "" {
		body = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title) + "\n" + content
	}
	return theme.Card.Width(width).Render(body)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Button renders a one-line button; the selected one is filled gold.
func Button(label string, selected bool) string {
	if selected {
		return theme.ButtonActive.Render(Cursor + label)
	}
	return theme.ButtonInactive.Render("  " + label)
}

// Message renders an inline error or notice. Empty text renders nothing.
func Message(text string, isErr bool) string {
	if text == "" {
		return ""
	}
	if isErr {
		return theme.ErrorText.Render(text)
	}
	return theme.NoticeText.Render(text)
}
