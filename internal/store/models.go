package store

// User is a registered account. PasswordHash is never shown to the UI.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}

// UserStats is the per-user aggregate maintained by the progress procedure.
type UserStats struct {
	UserID           int64 `db:"user_id"`
	TotalScore       int   `db:"total_score"`
	LessonsCompleted int   `db:"lessons_completed"`
	CurrentStreak    int   `db:"current_streak"`
	LongestStreak    int   `db:"longest_streak"`
}

// Theme is a top-level course unit.
type Theme struct {
	ID     int64  `db:"theme_id"`
	Name   string `db:"theme_name"`
	Number int    `db:"theme_number"`
}

// Lesson belongs to a theme and owns a quiz.
type Lesson struct {
	ID      int64  `db:"lesson_id"`
	Name    string `db:"lesson_name"`
	Number  int    `db:"lesson_number"`
	ThemeID int64  `db:"theme_id"`
}

// Question is one quiz prompt. Options are loaded separately.
type Question struct {
	ID       int64  `db:"question_id"`
	Text     string `db:"question_text"`
	Number   int    `db:"question_number"`
	LessonID int64  `db:"lesson_id"`
	Options  []Option
}

// Option is one answer choice of a question.
type Option struct {
	ID         int64  `db:"option_id"`
	QuestionID int64  `db:"question_id"`
	Text       string `db:"option_text"`
	Number     int    `db:"option_number"`
	Correct    bool   `db:"is_correct"`
}

// LeaderboardRow is one row of the leaderboard view, in view order.
type LeaderboardRow struct {
	Username         string `db:"username"`
	TotalScore       int    `db:"total_score"`
	LessonsCompleted int    `db:"lessons_completed"`
	CurrentStreak    int    `db:"current_streak"`
}

// ProgressRow is the result of get_user_progress.
type ProgressRow struct {
	TotalLessons     int     `db:"total_lessons"`
	CompletedLessons int     `db:"completed_lessons"`
	Percentage       float64 `db:"progress_percentage"`
}

// LessonMark is the per-user state of one lesson.
type LessonMark struct {
	LessonID  int64 `db:"lesson_id"`
	Completed bool  `db:"completed"`
	Score     int   `db:"score"`
}
