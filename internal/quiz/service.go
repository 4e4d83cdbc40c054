package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/store"
)

// QuestionSource loads the ordered questions of a lesson.
type QuestionSource interface {
	Questions(ctx context.Context, lessonID int64) ([]store.Question, error)
}

// ResultRecorder persists a finished quiz.
type ResultRecorder interface {
	RecordResult(ctx context.Context, userID, lessonID int64, score, total int) error
}

// Service starts sessions from stored lessons and records their results.
type Service struct {
	source   QuestionSource
	recorder ResultRecorder
	log      *slog.Logger
}

// NewService creates a quiz Service.
func NewService(source QuestionSource, recorder ResultRecorder, logger *slog.Logger) *Service {
	return &Service{source: source, recorder: recorder, log: logging.OrDiscard(logger)}
}

// Start loads the lesson and returns a session in PhaseInProgress, or in
// PhaseEmpty when the lesson has no usable questions.
func (s *Service) Start(ctx context.Context, lessonID, userID int64, themeIndex int) (*Session, error) {
	stored, err := s.source.Questions(ctx, lessonID)
	if err != nil {
		s.log.Error("load questions failed", "lesson_id", lessonID, "err", err)
		return nil, fmt.Errorf("load questions: %w", err)
	}

	questions, rejected := Convert(stored)
	for _, r := range rejected {
		s.log.Warn("question rejected", "lesson_id", lessonID, "question_id", r.QuestionID, "reason", r.Reason)
	}

	sess := New(lessonID, userID, themeIndex)
	if err := sess.Load(questions); err != nil {
		return nil, err
	}
	s.log.Info("quiz started", "session_id", sess.ID, "lesson_id", lessonID,
		"user_id", userID, "questions", sess.Len())
	return sess, nil
}

// Complete finishes a completed session and records its result when the
// session is allowed to persist. Sessions without a valid user are logged
// and skipped. It mutates sess, so callers off the update loop should call
// Finish themselves and hand the result to Record.
func (s *Service) Complete(ctx context.Context, sess *Session) (Result, error) {
	res, persist := sess.Finish()
	if sess.Phase() != PhaseCompleted {
		return res, ErrWrongPhase
	}
	if !persist {
		if sess.UserID <= 0 {
			s.log.Warn("result not recorded: no user", "session_id", sess.ID, "lesson_id", sess.LessonID)
		}
		return res, nil
	}
	return res, s.Record(ctx, sess.UserID, sess.LessonID, res)
}

// Record stores a finished result for userID and lessonID. It reads no
// session state.
func (s *Service) Record(ctx context.Context, userID, lessonID int64, res Result) error {
	if err := s.recorder.RecordResult(ctx, userID, lessonID, res.Score, res.Total); err != nil {
		s.log.Error("record result failed", "user_id", userID, "lesson_id", lessonID, "err", err)
		return fmt.Errorf("record result: %w", err)
	}
	s.log.Info("quiz recorded", "user_id", userID, "lesson_id", lessonID,
		"score", res.Score, "total", res.Total)
	return nil
}

// Rejected describes a stored question that cannot be played.
type Rejected struct {
	QuestionID int64
	Reason     string
}

// Convert turns stored questions into playable ones. A question needs at
// least one option and exactly one correct option; others are rejected.
func Convert(stored []store.Question) ([]Question, []Rejected) {
	var out []Question
	var rejected []Rejected
	for _, sq := range stored {
		if len(sq.Options) == 0 {
			rejected = append(rejected, Rejected{QuestionID: sq.ID, Reason: "no options"})
			continue
		}
		q := Question{ID: sq.ID, Text: sq.Text, CorrectIndex: Unanswered}
		correct := 0
		for i, o := range sq.Options {
			q.Options = append(q.Options, Option{ID: o.ID, Text: o.Text, Correct: o.Correct})
			if o.Correct {
				correct++
				q.CorrectIndex = i
			}
		}
		if correct != 1 {
			rejected = append(rejected, Rejected{
				QuestionID: sq.ID,
				Reason:     fmt.Sprintf("%d correct options, want 1", correct),
			})
			continue
		}
		out = append(out, q)
	}
	return out, rejected
}
