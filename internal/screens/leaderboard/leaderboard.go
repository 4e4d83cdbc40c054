// Package leaderboard shows the ranked list of learners.
package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/ui/components"
	"github.com/qirim/qirim/internal/ui/layout"
	"github.com/qirim/qirim/internal/ui/theme"
)

const (
	msgEmpty      = "No scores yet."
	msgLoadFailed = "Could not load the leaderboard."
)

type leaderboardLoadedMsg struct {
	entries []progress.LeaderboardEntry
	err     error
}

// LeaderboardScreen lists the top learners.
type LeaderboardScreen struct {
	progress *progress.Service
	identity auth.Identity
	limit    int
	entries  []progress.LeaderboardEntry
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)

// New creates a LeaderboardScreen showing up to limit entries; the row of
// identity is highlighted.
func New(svc *progress.Service, identity auth.Identity, limit int) *LeaderboardScreen {
	return &LeaderboardScreen{progress: svc, identity: identity, limit: limit}
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	svc, limit := s.progress, s.limit
	return func() tea.Msg {
		entries, err := svc.Leaderboard(context.Background(), limit)
		return leaderboardLoadedMsg{entries: entries, err: err}
	}
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

// Entries returns the loaded rows.
func (s *LeaderboardScreen) Entries() []progress.LeaderboardEntry { return s.entries }

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case leaderboardLoadedMsg:
		s.loaded = true
		s.entries = msg.entries
		s.errMsg = ""
		if msg.err != nil {
			s.errMsg = msgLoadFailed
		}
		return s, nil
	case tea.KeyMsg:
		if k := msg.String(); k == "r" || k == "R" {
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) View(width, height int) string {
	var body string
	switch {
	case !s.loaded:
		body = theme.Hint.Render("Loading...")
	case s.errMsg != "":
		body = theme.ErrorText.Render(s.errMsg)
	default:
		w := min(components.ContentWidth(width), 56)
		body = components.Panel(fmt.Sprintf("Top %d", s.limit), RenderTable(s.entries, s.identity.Username, w-4), w)
	}
	return components.Center(body, width, height)
}

// RenderTable renders ranked entries as aligned rows, marking the row of
// username. An empty list renders a placeholder line.
func RenderTable(entries []progress.LeaderboardEntry, username string, width int) string {
	if len(entries) == 0 {
		return theme.Hint.Render(msgEmpty)
	}

	nameWidth := max(width-24, 8)
	head := fmt.Sprintf("%-3s %-*s %6s %4s %4s", "#", nameWidth, "Name", "Score", "Done", "Days")
	lines := []string{lipgloss.NewStyle().Foreground(theme.TextDim).Render(head)}

	for _, e := range entries {
		name := e.Username
		if len([]rune(name)) > nameWidth {
			name = string([]rune(name)[:nameWidth-1]) + "…"
		}
		row := fmt.Sprintf("%-3d %-*s %6d %4d %4d", e.Rank, nameWidth, name, e.TotalScore, e.LessonsCompleted, e.CurrentStreak)

		style := theme.Unselected
		switch {
		case e.Username == username:
			style = theme.Selected
		case e.Rank == 1:
			style = lipgloss.NewStyle().Foreground(theme.Gold)
		}
		lines = append(lines, style.Render(row))
	}
	return strings.Join(lines, "\n")
}
