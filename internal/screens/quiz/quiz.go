// Package quiz is the screen that plays one lesson's multiple-choice quiz.
package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/course"
	"github.com/qirim/qirim/internal/quiz"
	"github.com/qirim/qirim/internal/router"
	"github.com/qirim/qirim/internal/screen"
	"github.com/qirim/qirim/internal/screens/result"
	"github.com/qirim/qirim/internal/ui/layout"
)

const defaultFeedbackDelay = time.Second

// QuizScreen implements screen.Screen for an active quiz.
type QuizScreen struct {
	svc        screen.Services
	identity   auth.Identity
	lesson     course.Lesson
	themeIndex int

	sess     *quiz.Session
	revealed map[int]bool
	feedback *quiz.Feedback
	saving   bool
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen for lesson. themeIndex is handed back to the
// home screen when the quiz ends.
func New(svc screen.Services, identity auth.Identity, lesson course.Lesson, themeIndex int) *QuizScreen {
	return &QuizScreen{
		svc:        svc,
		identity:   identity,
		lesson:     lesson,
		themeIndex: themeIndex,
		revealed:   make(map[int]bool),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	svc := s.svc.Quiz
	lessonID, userID, themeIndex := s.lesson.ID, s.identity.UserID, s.themeIndex
	return func() tea.Msg {
		sess, err := svc.Start(context.Background(), lessonID, userID, themeIndex)
		return quizStartedMsg{sess: sess, err: err}
	}
}

func (s *QuizScreen) Title() string {
	return s.lesson.Title
}

func (s *QuizScreen) Status() layout.Status {
	return layout.Status{Username: s.identity.Username}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.sess == nil || s.sess.Phase() != quiz.PhaseInProgress {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	next := "Check"
	if s.sess.IsLast() {
		next = "Finish"
	}
	hints := []layout.KeyHint{
		{Key: "A-" + lastLabel(s.sess.Question()), Description: "Choose"},
		{Key: "Enter", Description: next},
	}
	if s.sess.Current() > 0 {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Previous"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

// Session returns the running session, or nil while loading.
func (s *QuizScreen) Session() *quiz.Session { return s.sess }

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizStartedMsg:
		if msg.err != nil {
			s.errMsg = msgLoadFailed
			return s, nil
		}
		s.sess = msg.sess
		return s, nil

	case advanceMsg:
		return s.handleAdvance(msg)

	case quizRecordedMsg:
		return s.handleRecorded(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.sess == nil || s.sess.Phase() != quiz.PhaseInProgress {
		return s, nil
	}

	key := msg.String()
	switch key {
	case "enter":
		return s.reveal()
	case "left", "p":
		s.sess.Retreat()
		return s, nil
	}

	if idx, ok := optionIndex(key); ok {
		// A changed answer counts again only once it is re-checked.
		if s.sess.SelectAnswer(idx) == nil {
			delete(s.revealed, s.sess.Current())
		}
	}
	return s, nil
}

// reveal locks the current question and schedules the advance.
func (s *QuizScreen) reveal() (screen.Screen, tea.Cmd) {
	fb, err := s.sess.Reveal()
	if err != nil {
		return s, nil
	}
	s.feedback = &fb
	s.revealed[fb.Question] = true

	delay := s.svc.FeedbackDelay
	if delay <= 0 {
		delay = defaultFeedbackDelay
	}
	token := advanceMsg{sessionID: s.sess.ID, index: s.sess.Current()}
	return s, tea.Tick(delay, func(time.Time) tea.Msg { return token })
}

func (s *QuizScreen) handleAdvance(msg advanceMsg) (screen.Screen, tea.Cmd) {
	// Ticks from an abandoned session or an earlier question are stale.
	if s.sess == nil || msg.sessionID != s.sess.ID || msg.index != s.sess.Current() ||
		s.sess.Phase() != quiz.PhaseRevealing {
		return s, nil
	}

	s.feedback = nil
	completed, err := s.sess.Advance()
	if err != nil || !completed {
		return s, nil
	}

	res, persist := s.sess.Finish()
	if !persist {
		return s.handleRecorded(quizRecordedMsg{result: res})
	}

	s.saving = true
	svc, userID, lessonID := s.svc.Quiz, s.sess.UserID, s.sess.LessonID
	return s, func() tea.Msg {
		err := svc.Record(context.Background(), userID, lessonID, res)
		return quizRecordedMsg{result: res, err: err}
	}
}

func (s *QuizScreen) handleRecorded(msg quizRecordedMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	next := result.New(s.svc, s.identity, result.Outcome{
		Lesson:     s.lesson.Title,
		ThemeIndex: s.themeIndex,
		Result:     msg.result,
		Session:    s.sess,
		SaveFailed: msg.err != nil,
	})
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// shownScore counts correct answers among revealed questions, so choosing
// an option never gives away whether it is right.
func (s *QuizScreen) shownScore() int {
	score := 0
	for i := range s.revealed {
		if fb, ok := s.sess.Feedback(i); ok && fb.IsCorrect {
			score++
		}
	}
	return score
}
