package quiz

import "github.com/google/uuid"

// Session holds the questions of one lesson, the choice recorded for each
// and the current position. It is owned by a single screen and is not safe
// for concurrent use.
type Session struct {
	ID         string
	LessonID   int64
	UserID     int64
	ThemeIndex int

	questions []Question
	answers   []int
	current   int
	phase     Phase
	finished  bool
}

// New creates a session in PhaseLoading. ThemeIndex is kept for return
// navigation.
func New(lessonID, userID int64, themeIndex int) *Session {
	return &Session{
		ID:         uuid.NewString(),
		LessonID:   lessonID,
		UserID:     userID,
		ThemeIndex: themeIndex,
		phase:      PhaseLoading,
	}
}

// Load installs the questions. With none the session becomes PhaseEmpty,
// otherwise PhaseInProgress at the first question.
func (s *Session) Load(questions []Question) error {
	if s.phase != PhaseLoading {
		return ErrWrongPhase
	}
	s.questions = questions
	s.answers = make([]int, len(questions))
	for i := range s.answers {
		s.answers[i] = Unanswered
	}
	s.current = 0
	if len(questions) == 0 {
		s.phase = PhaseEmpty
		return nil
	}
	s.phase = PhaseInProgress
	return nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Current returns the zero-based index of the displayed question.
func (s *Session) Current() int { return s.current }

// IsLast reports whether the displayed question is the last one.
func (s *Session) IsLast() bool { return s.current == len(s.questions)-1 }

// Question returns the displayed question.
func (s *Session) Question() Question {
	if len(s.questions) == 0 {
		return Question{}
	}
	return s.questions[s.current]
}

// QuestionAt returns question i.
func (s *Session) QuestionAt(i int) Question { return s.questions[i] }

// Answer returns the recorded choice for question i, or Unanswered.
func (s *Session) Answer(i int) int {
	if i < 0 || i >= len(s.answers) {
		return Unanswered
	}
	return s.answers[i]
}

// SelectAnswer records option for the displayed question, replacing any
// earlier choice. Only allowed in PhaseInProgress.
func (s *Session) SelectAnswer(option int) error {
	if s.phase != PhaseInProgress {
		return ErrWrongPhase
	}
	if option < 0 || option >= len(s.questions[s.current].Options) {
		return ErrOptionRange
	}
	s.answers[s.current] = option
	return nil
}

// Score counts answered questions whose choice is the correct option.
func (s *Session) Score() int {
	score := 0
	for i, a := range s.answers {
		if a != Unanswered && a == s.questions[i].CorrectIndex {
			score++
		}
	}
	return score
}

// Feedback returns the correctness of question i. The second value is
// false while the question is unanswered, so correctness is never known
// before a choice exists.
func (s *Session) Feedback(i int) (Feedback, bool) {
	a := s.Answer(i)
	if a == Unanswered {
		return Feedback{}, false
	}
	correct := s.questions[i].CorrectIndex
	return Feedback{Question: i, Chosen: a, Correct: correct, IsCorrect: a == correct}, true
}

// Reveal locks the displayed question and returns its feedback. It
// requires a recorded answer; while revealing, further selections and
// reveals are rejected until Advance.
func (s *Session) Reveal() (Feedback, error) {
	if s.phase != PhaseInProgress {
		return Feedback{}, ErrWrongPhase
	}
	fb, ok := s.Feedback(s.current)
	if !ok {
		return Feedback{}, ErrNoAnswer
	}
	s.phase = PhaseRevealing
	return fb, nil
}

// Advance leaves PhaseRevealing for the next question, or for
// PhaseCompleted when the revealed question was the last one.
func (s *Session) Advance() (completed bool, err error) {
	if s.phase != PhaseRevealing {
		return false, ErrWrongPhase
	}
	if s.IsLast() {
		s.phase = PhaseCompleted
		return true, nil
	}
	s.current++
	s.phase = PhaseInProgress
	return false, nil
}

// Retreat moves to the previous question, keeping recorded answers. It
// returns false at the first question or outside PhaseInProgress.
func (s *Session) Retreat() bool {
	if s.phase != PhaseInProgress || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// Result returns the current score over all questions.
func (s *Session) Result() Result {
	score := s.Score()
	return Result{Score: score, Total: len(s.questions), Percentage: Percentage(score, len(s.questions))}
}

// Finish returns the final result of a completed session. The boolean is
// true exactly once, and only for a session with a positive user id: it
// tells the caller to record the result.
func (s *Session) Finish() (Result, bool) {
	if s.phase != PhaseCompleted {
		return s.Result(), false
	}
	persist := !s.finished && s.UserID > 0
	s.finished = true
	return s.Result(), persist
}
