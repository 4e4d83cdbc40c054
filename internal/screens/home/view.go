package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/screens/leaderboard"
	"github.com/qirim/qirim/internal/ui/components"
	"github.com/qirim/qirim/internal/ui/layout"
	"github.com/qirim/qirim/internal/ui/theme"
)

const (
	msgLoadFailed = "Could not load the course. Please try again later."
	msgNoContent  = "No course content yet. Add lessons with: qirim import <file>"
	msgNoLessons  = "This theme has no lessons yet."
	sidePanel     = 38
)

func (h *HomeScreen) View(width, height int) string {
	if !h.loaded {
		return components.Center(theme.Hint.Render("Loading..."), width, height)
	}

	wide := !layout.IsCompactWidth(width)
	mainWidth := components.ContentWidth(width)
	if wide {
		mainWidth = min(width-sidePanel-6, 72)
	}

	main := strings.Join([]string{
		h.renderGreeting(),
		"",
		h.renderProgress(mainWidth),
		"",
		h.renderCourse(mainWidth),
	}, "\n")

	board := components.Panel("Leaderboard",
		leaderboard.RenderTable(h.dash.Leaderboard, h.identity.Username, sidePanel-4),
		sidePanel)

	var content string
	if wide {
		content = lipgloss.JoinHorizontal(lipgloss.Top, main, "    ", board)
	} else {
		content = main
		if !layout.IsCompactHeight(height) {
			content += "\n\n" + board
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (h *HomeScreen) renderGreeting() string {
	hello := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
		Render(fmt.Sprintf("Merhaba, %s!", h.identity.Username))

	st := h.dash.Stats
	streak := fmt.Sprintf("★ Streak: %d %s", st.CurrentStreak, days(st.CurrentStreak))
	if st.LongestStreak > st.CurrentStreak {
		streak += fmt.Sprintf("  (best %d)", st.LongestStreak)
	}
	return hello + "\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render(streak)
}

func days(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

func (h *HomeScreen) renderProgress(width int) string {
	p := h.dash.Progress
	bar := components.NewProgressBar("Progress", p.Fraction(), true, width).View()
	detail := theme.Hint.Render(fmt.Sprintf("%d of %d lessons completed", p.CompletedLessons, p.TotalLessons))
	return bar + "\n" + detail
}

func (h *HomeScreen) renderCourse(width int) string {
	tree := h.nav.Tree()
	switch {
	case tree.Err != nil:
		return theme.ErrorText.Render(msgLoadFailed)
	case tree.Empty():
		return theme.Hint.Render(msgNoContent)
	}

	t, _ := h.nav.Current()

	arrow := func(glyph string, enabled bool) string {
		if enabled {
			return theme.Selected.Render(glyph)
		}
		return theme.Disabled.Render(glyph)
	}
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Theme %d/%d: %s", h.nav.Index()+1, h.nav.Len(), t.Name))
	header := arrow("◂", h.nav.HasPrev()) + "  " + title + "  " + arrow("▸", h.nav.HasNext())

	body := theme.Hint.Render(msgNoLessons)
	if len(h.menu.Items) > 0 {
		body = h.menu.View(width)
	}
	return header + "\n\n" + body
}
