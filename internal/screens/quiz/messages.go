package quiz

import (
	"github.com/qirim/qirim/internal/quiz"
)

// quizStartedMsg is sent when the lesson's questions are loaded.
type quizStartedMsg struct {
	sess *quiz.Session
	err  error
}

// advanceMsg ends the feedback pause. It names the session and question it
// was scheduled for.
type advanceMsg struct {
	sessionID string
	index     int
}

// quizRecordedMsg is sent after the finished quiz was handed to the
// progress backend.
type quizRecordedMsg struct {
	result quiz.Result
	err    error
}
