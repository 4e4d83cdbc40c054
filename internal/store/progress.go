package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

const dateLayout = "2006-01-02"

// ProgressRepo talks to the progress procedures and aggregate views.
type ProgressRepo struct {
	s   *Store
	now func() time.Time
}

// Progress returns a ProgressRepo backed by this store.
func (s *Store) Progress() *ProgressRepo {
	return &ProgressRepo{s: s, now: time.Now}
}

// RecordResult hands a finished quiz to update_user_progress. On SQLite the
// procedure is emulated inside one transaction.
func (r *ProgressRepo) RecordResult(ctx context.Context, userID, lessonID int64, score, total int) error {
	if r.s.dialect == dialect.Postgres {
		err := r.s.Do(ctx, func(q Querier) error {
			_, err := q.ExecContext(ctx, "SELECT update_user_progress($1, $2, $3, $4)",
				userID, lessonID, score, total)
			return err
		})
		if err != nil {
			return fmt.Errorf("update user progress: %w", err)
		}
		return nil
	}

	err := r.s.InTx(ctx, func(q Querier) error {
		return r.recordEmulated(ctx, q, userID, lessonID, score, total)
	})
	if err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}
	return nil
}

// recordEmulated mirrors update_user_progress: keep the best score per
// lesson, add only the improvement to total_score, recount completed
// lessons and advance the daily streak.
func (r *ProgressRepo) recordEmulated(ctx context.Context, q Querier, userID, lessonID int64, score, total int) error {
	var prev sql.NullInt64
	err := sqlx.GetContext(ctx, q, &prev,
		"SELECT score FROM user_lesson_progress WHERE user_id = ? AND lesson_id = ?", userID, lessonID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read previous score: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO user_lesson_progress (user_id, lesson_id, completed, score, total_questions, completed_at)
		 VALUES (?, ?, 1, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			completed = 1,
			score = MAX(score, excluded.score),
			total_questions = excluded.total_questions,
			completed_at = excluded.completed_at`,
		userID, lessonID, score, total); err != nil {
		return fmt.Errorf("upsert lesson progress: %w", err)
	}

	if _, err := q.ExecContext(ctx, "INSERT OR IGNORE INTO user_stats (user_id) VALUES (?)", userID); err != nil {
		return fmt.Errorf("ensure stats row: %w", err)
	}

	var st struct {
		Current int            `db:"current_streak"`
		Last    sql.NullString `db:"last_activity_date"`
	}
	if err := sqlx.GetContext(ctx, q, &st,
		"SELECT current_streak, last_activity_date FROM user_stats WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("read streak: %w", err)
	}

	today := r.now()
	streak := NextStreak(st.Current, st.Last.String, today)
	gain := max(score-int(prev.Int64), 0)

	if _, err := q.ExecContext(ctx,
		`UPDATE user_stats SET
			total_score = total_score + ?,
			lessons_completed = (SELECT COUNT(*) FROM user_lesson_progress WHERE user_id = ? AND completed = 1),
			current_streak = ?,
			longest_streak = MAX(longest_streak, ?),
			last_activity_date = ?
		 WHERE user_id = ?`,
		gain, userID, streak, streak, today.Format(dateLayout), userID); err != nil {
		return fmt.Errorf("update stats: %w", err)
	}
	return nil
}

// NextStreak returns the streak after activity on today, given the current
// streak and the last activity date (YYYY-MM-DD, empty if none). Activity on
// the same day keeps the streak, activity the day after extends it, and
// anything else restarts it at 1.
func NextStreak(current int, last string, today time.Time) int {
	if last == "" {
		return 1
	}
	lastDay, err := time.ParseInLocation(dateLayout, last, today.Location())
	if err != nil {
		return 1
	}
	y, m, d := today.Date()
	todayDay := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	switch {
	case lastDay.Equal(todayDay):
		return max(current, 1)
	case lastDay.AddDate(0, 0, 1).Equal(todayDay):
		return current + 1
	default:
		return 1
	}
}

// UserProgress returns lesson completion totals for userID.
func (r *ProgressRepo) UserProgress(ctx context.Context, userID int64) (ProgressRow, error) {
	var row ProgressRow
	err := r.s.Do(ctx, func(q Querier) error {
		if r.s.dialect == dialect.Postgres {
			return sqlx.GetContext(ctx, q, &row,
				"SELECT total_lessons, completed_lessons, progress_percentage FROM get_user_progress($1)", userID)
		}
		if err := sqlx.GetContext(ctx, q, &row,
			`SELECT (SELECT COUNT(*) FROM lessons) AS total_lessons,
			        (SELECT COUNT(*) FROM user_lesson_progress WHERE user_id = ? AND completed = 1) AS completed_lessons,
			        0 AS progress_percentage`, userID); err != nil {
			return err
		}
		if row.TotalLessons > 0 {
			row.Percentage = math.Round(float64(row.CompletedLessons)*10000/float64(row.TotalLessons)) / 100
		}
		return nil
	})
	if err != nil {
		return ProgressRow{}, fmt.Errorf("get user progress: %w", err)
	}
	return row, nil
}

// Stats returns the stats row for userID. A missing row yields zero stats.
func (r *ProgressRepo) Stats(ctx context.Context, userID int64) (UserStats, error) {
	query, args := r.s.sel("user_id", "total_score", "lessons_completed", "current_streak", "longest_streak").
		From(entsql.Table("user_stats")).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var st UserStats
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.GetContext(ctx, q, &st, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return UserStats{UserID: userID}, nil
	}
	if err != nil {
		return UserStats{}, fmt.Errorf("get user stats: %w", err)
	}
	return st, nil
}

// Leaderboard returns up to limit rows of the leaderboard view in view order.
func (r *ProgressRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	query, args := r.s.sel("username", "total_score", "lessons_completed", "current_streak").
		From(entsql.Table("leaderboard")).
		Limit(limit).
		Query()

	var rows []LeaderboardRow
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	return rows, nil
}

// LessonMark returns the completion state of one lesson for userID. A
// missing row yields an incomplete mark with score 0.
func (r *ProgressRepo) LessonMark(ctx context.Context, userID, lessonID int64) (LessonMark, error) {
	query, args := r.s.sel("lesson_id", "completed", "score").
		From(entsql.Table("user_lesson_progress")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("lesson_id", lessonID))).
		Query()

	var m LessonMark
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.GetContext(ctx, q, &m, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return LessonMark{LessonID: lessonID}, nil
	}
	if err != nil {
		return LessonMark{LessonID: lessonID}, fmt.Errorf("get lesson progress: %w", err)
	}
	return m, nil
}

// LessonMarks returns the marks of the given lessons for userID keyed by
// lesson id. Lessons without a row are absent from the map.
func (r *ProgressRepo) LessonMarks(ctx context.Context, userID int64, lessonIDs []int64) (map[int64]LessonMark, error) {
	out := make(map[int64]LessonMark, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return out, nil
	}
	ids := make([]any, len(lessonIDs))
	for i, id := range lessonIDs {
		ids[i] = id
	}
	query, args := r.s.sel("lesson_id", "completed", "score").
		From(entsql.Table("user_lesson_progress")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.In("lesson_id", ids...))).
		Query()

	var marks []LessonMark
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &marks, query, args...)
	})
	if err != nil {
		return out, fmt.Errorf("select lesson progress: %w", err)
	}
	for _, m := range marks {
		out[m.LessonID] = m
	}
	return out, nil
}

// Reset clears all lesson progress of userID and zeroes the stats row.
func (r *ProgressRepo) Reset(ctx context.Context, userID int64) error {
	err := r.s.InTx(ctx, func(q Querier) error {
		if _, err := q.ExecContext(ctx, q.Rebind("DELETE FROM user_lesson_progress WHERE user_id = ?"), userID); err != nil {
			return fmt.Errorf("delete lesson progress: %w", err)
		}
		if _, err := q.ExecContext(ctx, q.Rebind(
			`UPDATE user_stats SET total_score = 0, lessons_completed = 0, current_streak = 0,
			 longest_streak = 0, last_activity_date = NULL WHERE user_id = ?`), userID); err != nil {
			return fmt.Errorf("zero stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
