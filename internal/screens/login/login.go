// Package login is the sign-in and registration screen.
package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/ui/components"
	"github.com/qirim/qirim/internal/ui/layout"
	"github.com/qirim/qirim/internal/ui/theme"
)

// Mode selects the form shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
)

const formWidth = 44

type loginDoneMsg struct {
	identity auth.Identity
	err      error
}

type registerDoneMsg struct {
	username string
	err      error
}

// LoginScreen collects credentials and runs login or registration
// through the auth service.
type LoginScreen struct {
	auth   *auth.Service
	mode   Mode
	fields []components.Field
	focus  int
	busy   bool
	errMsg string
	notice string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen in login mode.
func New(svc *auth.Service) *LoginScreen {
	s := &LoginScreen{
		auth: svc,
		fields: []components.Field{
			fieldUsername: components.NewField("Username", "at least 3 characters", false, 32),
			fieldEmail:    components.NewField("Email", "you@example.com", false, 254),
			fieldPassword: components.NewField("Password", "", true, 128),
		},
	}
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.focusField(fieldUsername)
}

func (s *LoginScreen) Title() string {
	if s.mode == ModeRegister {
		return "Create account"
	}
	return "Log in"
}

// Mode returns the form currently shown.
func (s *LoginScreen) Mode() Mode { return s.mode }

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	toggle := layout.KeyHint{Key: "Ctrl+R", Description: "Create account"}
	submit := layout.KeyHint{Key: "Enter", Description: "Log in"}
	if s.mode == ModeRegister {
		toggle.Description = "Back to login"
		submit.Description = "Register"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		submit,
		toggle,
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// visible returns the field indexes of the current form in display order.
func (s *LoginScreen) visible() []int {
	if s.mode == ModeRegister {
		return []int{fieldUsername, fieldEmail, fieldPassword}
	}
	return []int{fieldUsername, fieldPassword}
}

func (s *LoginScreen) focusField(idx int) tea.Cmd {
	for i := range s.fields {
		s.fields[i].Blur()
	}
	s.focus = idx
	return s.fields[idx].Focus()
}

func (s *LoginScreen) moveFocus(delta int) tea.Cmd {
	order := s.visible()
	pos := 0
	for i, idx := range order {
		if idx == s.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(order)) % len(order)
	return s.focusField(order[pos])
}

// SetMode switches between the login and registration forms. The
// password is cleared and messages are dropped.
func (s *LoginScreen) SetMode(m Mode) tea.Cmd {
	s.mode = m
	s.errMsg = ""
	s.notice = ""
	s.fields[fieldPassword].SetValue("")
	return s.focusField(fieldUsername)
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = auth.UserMessage(msg.err)
			s.fields[fieldPassword].SetValue("")
			return s, nil
		}
		identity := msg.identity
		return s, func() tea.Msg { return screen.LoggedInMsg{Identity: identity} }

	case registerDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = auth.UserMessage(msg.err)
			return s, nil
		}
		cmd := s.SetMode(ModeLogin)
		s.fields[fieldUsername].SetValue(msg.username)
		s.fields[fieldEmail].SetValue("")
		s.notice = "Account created. Please log in."
		return s, tea.Batch(cmd, s.focusField(fieldPassword))

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "ctrl+r":
			if s.busy {
				return s, nil
			}
			if s.mode == ModeLogin {
				return s, s.SetMode(ModeRegister)
			}
			return s, s.SetMode(ModeLogin)
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	s.errMsg = ""
	s.notice = ""

	svc := s.auth
	username := s.fields[fieldUsername].Value()
	password := s.fields[fieldPassword].Value()

	if s.mode == ModeRegister {
		email := s.fields[fieldEmail].Value()
		return func() tea.Msg {
			_, err := svc.Register(context.Background(), username, password, email)
			return registerDoneMsg{username: auth.Normalize(username), err: err}
		}
	}
	return func() tea.Msg {
		id, err := svc.Login(context.Background(), username, password)
		return loginDoneMsg{identity: id, err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("Hoş keldiñiz!"),
		theme.Subtitle.Render("Welcome to "+layout.AppName),
		"",
	)

	for _, idx := range s.visible() {
		sections = append(sections, s.fields[idx].View(formWidth))
	}
	sections = append(sections, "")

	label := "Log in"
	if s.mode == ModeRegister {
		label = "Register"
	}
	if s.busy {
		label += "..."
	}
	sections = append(sections, components.Button(label, true))

	if s.errMsg != "" {
		sections = append(sections, "", components.Message(s.errMsg, true))
	}
	if s.notice != "" {
		sections = append(sections, "", components.Message(s.notice, false))
	}

	card := theme.Card.Padding(1, 3).Render(strings.Join(sections, "\n"))
	return components.Center(card, width, height)
}
