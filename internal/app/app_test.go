package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/router"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/screen/screentest"
	"github.com/qirim/qirim/internal/screens/home"
	"github.com/qirim/qirim/internal/screens/login"
	"github.com/qirim/qirim/internal/screens/result"
	"github.com/qirim/qirim/internal/screens/welcome"
)

func newTestApp(t *testing.T, splash bool) (AppModel, auth.Identity) {
	t.Helper()
	svc, st := screentest.Services(t)
	user := screentest.Identity(t, st, "ayse")
	m := newAppModel(Options{Services: svc, Splash: splash})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel), user
}

func send(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestStartsAtLogin(t *testing.T) {
	m, _ := newTestApp(t, false)
	if _, ok := m.Active().(*login.LoginScreen); !ok {
		t.Fatalf("active = %T, want login", m.Active())
	}
}

func TestSplashLeadsToLogin(t *testing.T) {
	m, _ := newTestApp(t, true)
	if _, ok := m.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("active = %T, want welcome", m.Active())
	}
	m, cmd := send(m, tea.KeyPressMsg{Code: ' '})
	m, _ = send(m, cmd())
	if _, ok := m.Active().(*login.LoginScreen); !ok {
		t.Errorf("active = %T, want login after the splash", m.Active())
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	m, user := newTestApp(t, false)

	m, _ = send(m, screen.LoggedInMsg{Identity: user})
	h, ok := m.Active().(*home.HomeScreen)
	if !ok {
		t.Fatalf("active = %T, want home", m.Active())
	}
	if h.ThemeIndex() != 0 {
		t.Errorf("theme index = %d, want 0", h.ThemeIndex())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want login dropped from the stack", m.router.Depth())
	}

	m, _ = send(m, screen.LogoutMsg{})
	if _, ok := m.Active().(*login.LoginScreen); !ok {
		t.Errorf("active = %T, want login after logout", m.Active())
	}
}

func TestEscOnResultGoesHome(t *testing.T) {
	m, user := newTestApp(t, false)
	m, _ = send(m, screen.LoggedInMsg{Identity: user})

	sess := quiz.New(1, user.UserID, 3)
	res := result.New(m.svc, user, result.Outcome{Lesson: "Aile", ThemeIndex: 3, Session: sess})
	m, _ = send(m, router.PushScreenMsg{Screen: res})

	m, cmd := send(m, tea.KeyPressMsg{Code: tea.KeyEsc})
	msg, ok := cmd().(screen.HomeMsg)
	if !ok || msg.ThemeIndex != 3 {
		t.Fatalf("esc on result = %#v, want HomeMsg on theme 3", msg)
	}

	m, _ = send(m, msg)
	h, ok := m.Active().(*home.HomeScreen)
	if !ok || h.ThemeIndex() != 3 || m.router.Depth() != 1 {
		t.Errorf("active = %T depth %d, want a fresh home on theme 3", m.Active(), m.router.Depth())
	}
}

func TestEscPopsPushedScreen(t *testing.T) {
	m, user := newTestApp(t, false)
	m, _ = send(m, screen.LoggedInMsg{Identity: user})

	m, cmd := send(m, tea.KeyPressMsg{Code: 'l', Text: "l"})
	if cmd == nil {
		t.Fatal("l should open the leaderboard")
	}
	m, _ = send(m, cmd())
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	m, cmd = send(m, tea.KeyPressMsg{Code: tea.KeyEsc})
	m, _ = send(m, cmd())
	if _, ok := m.Active().(*home.HomeScreen); !ok {
		t.Errorf("active = %T, want home after esc", m.Active())
	}
}

func TestFooterHints(t *testing.T) {
	m, user := newTestApp(t, false)
	hints := m.hints(m.Active())
	if len(hints) == 0 || hints[0].Key != "Tab" {
		t.Errorf("login hints = %+v", hints)
	}

	m, _ = send(m, screen.LoggedInMsg{Identity: user})
	m, _ = send(m, router.PushScreenMsg{Screen: &hintless{}})
	hints = m.hints(m.Active())
	if len(hints) != 2 || hints[0].Key != "Esc" {
		t.Errorf("fallback hints = %+v, want Esc and Ctrl+C", hints)
	}
}

type hintless struct{}

func (h *hintless) Init() tea.Cmd                           { return nil }
func (h *hintless) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }
func (h *hintless) View(int, int) string                    { return "" }
func (h *hintless) Title() string                           { return "" }

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestApp(t, false)
	_, cmd := send(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
