// Package app is the root Bubble Tea model: it owns the router, draws the
// frame and moves between the signed-out and signed-in flows.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/router"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/screens/home"
	"github.com/qirim/qirim/internal/screens/login"
	"github.com/qirim/qirim/internal/screens/welcome"
	"github.com/qirim/qirim/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	screen.Services

	// Splash shows the welcome banner before the login screen.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    screen.Services
	router *router.Router
	width  int
	height int
}

// newAppModel creates the model starting at the login screen, behind the
// welcome banner when requested.
func newAppModel(opts Options) AppModel {
	svc := opts.Services
	svc.Log = logging.OrDiscard(svc.Log)

	first := screen.Screen(login.New(svc.Auth))
	if opts.Splash {
		loginScreen := first
		first = welcome.New(func() screen.Screen { return loginScreen })
	}
	return AppModel{
		svc:    svc,
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.BackHandler); ok {
				return m, b.Back()
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case screen.LoggedInMsg:
		m.svc.Log.Info("session started", "user_id", msg.Identity.UserID)
		return m, m.router.Reset(home.New(m.svc, msg.Identity, 0))

	case screen.HomeMsg:
		return m, m.router.Reset(home.New(m.svc, msg.Identity, msg.ThemeIndex))

	case screen.LogoutMsg:
		m.svc.Log.Info("logged out")
		return m, m.router.Reset(login.New(m.svc.Auth))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// Active returns the screen on top of the stack.
func (m AppModel) Active() screen.Screen {
	return m.router.Active()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
