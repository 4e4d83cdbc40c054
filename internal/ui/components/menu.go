package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label string
	// Mark is a one-cell prefix such as "✓"; blank keeps the column aligned.
	Mark string
	// Detail is right-aligned on the row.
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.firstEnabled()
	return m
}

func (m Menu) firstEnabled() int {
	for i, item := range m.Items {
		if !item.Disabled {
			return i
		}
	}
	return 0
}

// SetItems replaces the items, keeping the selection when it is still in
// range and enabled.
func (m Menu) SetItems(items []MenuItem) Menu {
	m.Items = items
	if m.Selected >= len(items) || m.Selected < 0 || items[m.Selected].Disabled {
		m.Selected = m.firstEnabled()
	}
	return m
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu rows at the given width.
func (m Menu) View(width int) string {
	var b strings.Builder
	for i, item := range m.Items {
		mark := item.Mark
		if mark == "" {
			mark = " "
		}
		prefix := "  "
		style := theme.Unselected
		switch {
		case item.Disabled:
			style = theme.Disabled
		case i == m.Selected:
			prefix = Cursor
			style = theme.Selected
		}

		left := style.Render(prefix + item.Label)
		markStyled := lipgloss.NewStyle().Foreground(theme.Success).Render(mark)
		row := markStyled + " " + left
		if item.Detail != "" {
			detail := lipgloss.NewStyle().Foreground(theme.Gold).Render(item.Detail)
			gap := max(width-lipgloss.Width(row)-lipgloss.Width(detail), 1)
			row += strings.Repeat(" ", gap) + detail
		}
		b.WriteString(row)
		if i < len(m.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
