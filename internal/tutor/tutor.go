// Package tutor asks a language model to explain the questions a learner
// missed in a finished quiz.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qirim/qirim/internal/llm"
	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/quiz"
)

const maxTokens = 1500

// ErrNothingMissed is returned when every question was answered correctly.
var ErrNothingMissed = errors.New("no missed questions")

// Miss is one incorrectly answered question.
type Miss struct {
	Question string
	Chosen   string
	Correct  string
}

// Item explains one miss.
type Item struct {
	Question    string `json:"question"`
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Explanation is the tutor's review of a quiz.
type Explanation struct {
	Items         []Item `json:"items"`
	Encouragement string `json:"encouragement"`
}

// Misses collects the answered questions of sess whose choice was wrong.
func Misses(sess *quiz.Session) []Miss {
	var out []Miss
	for i := 0; i < sess.Len(); i++ {
		fb, ok := sess.Feedback(i)
		if !ok || fb.IsCorrect {
			continue
		}
		q := sess.QuestionAt(i)
		out = append(out, Miss{
			Question: q.Text,
			Chosen:   q.Options[fb.Chosen].Text,
			Correct:  q.Options[fb.Correct].Text,
		})
	}
	return out
}

// Service produces explanations through an llm.Provider.
type Service struct {
	provider llm.Provider
	log      *slog.Logger
}

// NewService creates a tutor. A nil provider yields a nil Service, which
// callers treat as "tutor unavailable".
func NewService(provider llm.Provider, logger *slog.Logger) *Service {
	if provider == nil {
		return nil
	}
	return &Service{provider: provider, log: logging.OrDiscard(logger)}
}

// Explain reviews misses from the named lesson.
func (s *Service) Explain(ctx context.Context, lesson string, misses []Miss) (Explanation, error) {
	if len(misses) == 0 {
		return Explanation{}, ErrNothingMissed
	}

	req := llm.Prompt(systemPrompt, userMessage(lesson, misses), maxTokens)
	req.Schema = ExplanationSchema
	req.Temperature = 0.3

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "explain-misses"), req)
	if err != nil {
		s.log.Warn("tutor explanation failed", "lesson", lesson, "misses", len(misses), "err", err)
		return Explanation{}, fmt.Errorf("explain misses: %w", err)
	}

	var ex Explanation
	if err := resp.Decode(&ex); err != nil {
		return Explanation{}, fmt.Errorf("decode explanation: %w", err)
	}
	return ex, nil
}
