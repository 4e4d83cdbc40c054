// Package home is the signed-in landing screen: the course tree by theme
// and the learner dashboard.
package home

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/course"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/router"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/screens/leaderboard"
	quizscreen "github.com/qirim/qirim/internal/screens/quiz"
	"github.com/qirim/qirim/internal/ui/components"
	"github.com/qirim/qirim/internal/ui/layout"
)

// homeLoadedMsg carries everything the home screen reads on entry.
type homeLoadedMsg struct {
	tree  course.Tree
	marks map[int64]course.LessonMark
	dash  progress.Dashboard
}

// HomeScreen shows one theme at a time with its lessons, plus progress,
// streak and the top of the leaderboard.
type HomeScreen struct {
	svc        screen.Services
	identity   auth.Identity
	themeIndex int

	loaded bool
	nav    *course.Navigator
	marks  map[int64]course.LessonMark
	dash   progress.Dashboard
	menu   components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a HomeScreen for identity that opens on theme themeIndex.
func New(svc screen.Services, identity auth.Identity, themeIndex int) *HomeScreen {
	return &HomeScreen{
		svc:        svc,
		identity:   identity,
		themeIndex: themeIndex,
		nav:        course.NewNavigator(course.Tree{}),
		marks:      map[int64]course.LessonMark{},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() layout.Status {
	return layout.Status{
		Username:   h.identity.Username,
		Streak:     h.dash.Stats.CurrentStreak,
		TotalScore: h.dash.Stats.TotalScore,
	}
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Lesson"},
		{Key: "Enter", Description: "Start"},
	}
	if h.nav.HasPrev() || h.nav.HasNext() {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Theme"})
	}
	return append(hints,
		layout.KeyHint{Key: "L", Description: "Leaderboard"},
		layout.KeyHint{Key: "O", Description: "Log out"},
		layout.KeyHint{Key: "Q", Description: "Quit"},
	)
}

// ThemeIndex returns the index of the theme on display.
func (h *HomeScreen) ThemeIndex() int {
	if !h.loaded {
		return h.themeIndex
	}
	return h.nav.Index()
}

func (h *HomeScreen) load() tea.Cmd {
	svc := h.svc
	identity := h.identity
	return func() tea.Msg {
		ctx := context.Background()
		tree := svc.Course.LoadTree(ctx)
		var all []course.Lesson
		for _, t := range tree.Themes {
			all = append(all, t.Lessons...)
		}
		return homeLoadedMsg{
			tree:  tree,
			marks: svc.Course.Decorate(ctx, identity.UserID, all),
			dash:  svc.Progress.Dashboard(ctx, identity.UserID, svc.LeaderboardSize),
		}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		index := h.ThemeIndex()
		h.loaded = true
		h.nav = course.NewNavigator(msg.tree)
		h.nav.SetIndex(index)
		h.marks = msg.marks
		h.dash = msg.dash
		h.menu = components.NewMenu(h.lessonItems())
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			if h.nav.Retreat() {
				h.menu = components.NewMenu(h.lessonItems())
			}
			return h, nil
		case "right":
			if h.nav.Advance() {
				h.menu = components.NewMenu(h.lessonItems())
			}
			return h, nil
		case "l", "L":
			lb := leaderboard.New(h.svc.Progress, h.identity, h.svc.LeaderboardSize)
			return h, func() tea.Msg { return router.PushScreenMsg{Screen: lb} }
		case "o", "O":
			return h, func() tea.Msg { return screen.LogoutMsg{} }
		case "r", "R":
			return h, h.load()
		case "q", "Q":
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// lessonItems builds the menu rows of the current theme.
func (h *HomeScreen) lessonItems() []components.MenuItem {
	theme, ok := h.nav.Current()
	if !ok {
		return nil
	}
	items := make([]components.MenuItem, 0, len(theme.Lessons))
	for _, l := range theme.Lessons {
		item := components.MenuItem{
			Label:  fmt.Sprintf("%d. %s", l.Number, l.Title),
			Action: h.startLesson(l),
		}
		if m, ok := h.marks[l.ID]; ok && m.Completed {
			item.Mark = "✓"
			item.Detail = fmt.Sprintf("best %d", m.Score)
		}
		items = append(items, item)
	}
	return items
}

func (h *HomeScreen) startLesson(l course.Lesson) func() tea.Cmd {
	return func() tea.Cmd {
		s := quizscreen.New(h.svc, h.identity, l, h.nav.Index())
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}
