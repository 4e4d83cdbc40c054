// Package result shows the outcome of a finished quiz and, when a tutor
// is configured, explanations of the missed questions.
package result

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/llm"
	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/tutor"
	"github.com/qirim/qirim/internal/ui/components"
	"github.com/qirim/qirim/internal/ui/layout"
	"github.com/qirim/qirim/internal/ui/theme"
)

// Outcome is what the quiz screen hands over when a quiz ends.
type Outcome struct {
	Lesson     string
	ThemeIndex int
	Result     quiz.Result
	Session    *quiz.Session
	SaveFailed bool
}

type tutorState int

const (
	tutorIdle tutorState = iota
	tutorAsking
	tutorDone
	tutorFailed
)

type explainedMsg struct {
	explanation tutor.Explanation
	err         error
}

// ResultScreen displays the final score.
type ResultScreen struct {
	svc      screen.Services
	identity auth.Identity
	outcome  Outcome
	misses   []tutor.Miss

	tutorState  tutorState
	explanation tutor.Explanation
	tutorErr    string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.BackHandler = (*ResultScreen)(nil)

// New creates a ResultScreen.
func New(svc screen.Services, identity auth.Identity, outcome Outcome) *ResultScreen {
	s := &ResultScreen{svc: svc, identity: identity, outcome: outcome}
	if outcome.Session != nil {
		s.misses = tutor.Misses(outcome.Session)
	}
	return s
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return s.outcome.Lesson
}

// canExplain reports whether the tutor key is offered.
func (s *ResultScreen) canExplain() bool {
	return s.svc.Tutor != nil && len(s.misses) > 0 &&
		(s.tutorState == tutorIdle || s.tutorState == tutorFailed)
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Back to lessons"}}
	if s.canExplain() {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain my mistakes"})
	}
	return hints
}

// Back returns to the home screen on the quiz's theme.
func (s *ResultScreen) Back() tea.Cmd {
	msg := screen.HomeMsg{Identity: s.identity, ThemeIndex: s.outcome.ThemeIndex}
	return func() tea.Msg { return msg }
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		if msg.err != nil {
			s.tutorState = tutorFailed
			s.tutorErr = tutorMessage(msg.err)
			return s, nil
		}
		s.tutorState = tutorDone
		s.explanation = msg.explanation
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "h":
			return s, s.Back()
		case "e", "E":
			if !s.canExplain() {
				return s, nil
			}
			s.tutorState = tutorAsking
			s.tutorErr = ""
			svc, lesson, misses := s.svc.Tutor, s.outcome.Lesson, s.misses
			return s, func() tea.Msg {
				ex, err := svc.Explain(context.Background(), lesson, misses)
				return explainedMsg{explanation: ex, err: err}
			}
		}
	}
	return s, nil
}

func tutorMessage(err error) string {
	if kind, ok := llm.KindOf(err); ok && kind == llm.KindRateLimit {
		return "The tutor is busy. Try again in a moment."
	}
	return "The tutor is unavailable right now."
}

// Headline returns the completion message.
func Headline(r quiz.Result) string {
	return fmt.Sprintf("Quiz complete! %d of %d (%d%%)", r.Score, r.Total, r.Percentage)
}

func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	r := s.outcome.Result

	sections := []string{
		theme.Title.Width(cw).Render(Headline(r)),
		"",
		components.NewProgressBar("", float64(r.Percentage)/100, false, cw).View(),
	}

	if s.outcome.SaveFailed {
		sections = append(sections, "", theme.ErrorText.Render("Your result could not be saved."))
	}

	switch {
	case len(s.misses) == 0:
		sections = append(sections, "", theme.Correct.Render("Every answer was right. Aferin!"))
	case s.tutorState == tutorAsking:
		sections = append(sections, "", theme.Hint.Render("Asking the tutor..."))
	case s.tutorState == tutorFailed:
		sections = append(sections, "", theme.ErrorText.Render(s.tutorErr))
	case s.tutorState == tutorDone:
		sections = append(sections, "", s.renderExplanation(cw))
	default:
		sections = append(sections, "", theme.Hint.Render(fmt.Sprintf("%d to review.", len(s.misses))))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.PlaceHorizontal(width-4, lipgloss.Center, strings.Join(sections, "\n")))
}

func (s *ResultScreen) renderExplanation(width int) string {
	var b strings.Builder
	for i, item := range s.explanation.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(item.Question))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 4).Render(item.Explanation))
		if item.Tip != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Width(width - 4).Render("Tip: " + item.Tip))
		}
	}
	if s.explanation.Encouragement != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Render(s.explanation.Encouragement))
	}
	return components.Panel("Tutor", b.String(), width)
}
