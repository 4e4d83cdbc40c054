package quiz

import "errors"

// Phase represents the lifecycle of a quiz session.
type Phase int

const (
	// PhaseLoading is the initial phase before questions arrive.
	PhaseLoading Phase = iota
	// PhaseInProgress accepts answer selection and navigation.
	PhaseInProgress
	// PhaseRevealing shows correctness of the current answer and blocks
	// input until Advance.
	PhaseRevealing
	// PhaseCompleted is reached after advancing past the last question.
	PhaseCompleted
	// PhaseEmpty means the lesson has no questions. Nothing is recorded.
	PhaseEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in-progress"
	case PhaseRevealing:
		return "revealing"
	case PhaseCompleted:
		return "completed"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Unanswered marks a question without a recorded choice.
const Unanswered = -1

var (
	// ErrWrongPhase is returned for an action not allowed in the current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	// ErrNoAnswer is returned by Reveal when the current question is unanswered.
	ErrNoAnswer = errors.New("current question has no answer")
	// ErrOptionRange is returned for an option index outside the question.
	ErrOptionRange = errors.New("option index out of range")
)

// Option is one answer choice.
type Option struct {
	ID      int64
	Text    string
	Correct bool
}

// Question is a quiz prompt with ordered options and exactly one correct
// option at CorrectIndex.
type Question struct {
	ID           int64
	Text         string
	Options      []Option
	CorrectIndex int
}

// Feedback is the correctness of one answered question.
type Feedback struct {
	Question  int
	Chosen    int
	Correct   int
	IsCorrect bool
}

// Result is the outcome of a completed session.
type Result struct {
	Score      int
	Total      int
	Percentage int
}

// Percentage returns score*100/total rounded down, or 0 when total is 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return score * 100 / total
}
