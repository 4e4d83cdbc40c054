package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/ui/components"
	"github.com/qirim/qirim/internal/ui/theme"
)

const (
	msgLoadFailed = "Could not load this lesson. Please try again later."
	msgEmpty      = "This lesson has no questions yet."
)

// optionIndex maps a/b/c... and 1/2/3... to a zero-based option index.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'h':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'H':
		return int(c - 'A'), true
	case c >= '1' && c <= '8':
		return int(c - '1'), true
	}
	return 0, false
}

func lastLabel(q quiz.Question) string {
	return components.OptionLabel(max(len(q.Options)-1, 0))
}

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return components.Center(theme.ErrorText.Render(s.errMsg), width, height)
	case s.sess == nil:
		return components.Center(theme.Hint.Render("Loading..."), width, height)
	case s.sess.Phase() == quiz.PhaseEmpty:
		return components.Center(theme.Hint.Render(msgEmpty), width, height)
	case s.sess.Phase() == quiz.PhaseCompleted:
		return components.Center(theme.Hint.Render("Saving your result..."), width, height)
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	cw := components.ContentWidth(width)
	sess := s.sess
	q := sess.Question()

	var b strings.Builder

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", sess.Current()+1, sess.Len()))
	right := lipgloss.NewStyle().Foreground(theme.Gold).
		Render(fmt.Sprintf("Score: %d/%d", s.shownScore(), sess.Len()))
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	b.WriteString(left + strings.Repeat(" ", gap) + right)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).Render(q.Text))
	b.WriteString("\n\n")

	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	grid := components.OptionGrid{
		Options:  opts,
		Chosen:   sess.Answer(sess.Current()),
		Correct:  q.CorrectIndex,
		Revealed: s.feedback != nil,
	}
	b.WriteString(grid.View(cw))
	b.WriteString("\n\n")
	b.WriteString(s.renderStatusLine(q))

	return lipgloss.NewStyle().Padding(1, 0).Width(width).Align(lipgloss.Center).Render(b.String())
}

func (s *QuizScreen) renderStatusLine(q quiz.Question) string {
	if fb := s.feedback; fb != nil {
		if fb.IsCorrect {
			return theme.Correct.Render("Doğru! Correct!")
		}
		return theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %s) %s",
			components.OptionLabel(fb.Correct), q.Options[fb.Correct].Text))
	}

	next := "Check"
	if s.sess.IsLast() {
		next = "Finish"
	}
	if s.sess.Answer(s.sess.Current()) == quiz.Unanswered {
		return theme.Hint.Render(fmt.Sprintf("Choose A-%s", lastLabel(q)))
	}
	return components.Button(next, true)
}
