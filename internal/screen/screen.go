// Package screen defines the contract between the router and the screens,
// and the dependencies screens are built from.
package screen

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/course"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/tutor"
	"github.com/qirim/qirim/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that know who is signed in.
// The header shows the returned status.
type StatusProvider interface {
	Status() layout.Status
}

// BackHandler is implemented by screens that handle Esc themselves
// instead of being popped.
type BackHandler interface {
	Back() tea.Cmd
}

// Services are the domain services shared by every screen. Tutor is nil
// when no language model is configured.
type Services struct {
	Auth     *auth.Service
	Course   *course.Service
	Quiz     *quiz.Service
	Progress *progress.Service
	Tutor    *tutor.Service

	LeaderboardSize int
	FeedbackDelay   time.Duration
	Log             *slog.Logger
}

// LoggedInMsg is sent by the login screen after a successful login.
type LoggedInMsg struct {
	Identity auth.Identity
}

// LogoutMsg ends the signed-in session and returns to the login screen.
type LogoutMsg struct{}

// HomeMsg returns to the home screen of Identity showing theme ThemeIndex.
type HomeMsg struct {
	Identity   auth.Identity
	ThemeIndex int
}
