// Package progress reads and records learner progress through the
// backend procedures and the leaderboard view.
package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/store"
)

// DefaultLeaderboardSize is used when a non-positive limit is requested.
const DefaultLeaderboardSize = 10

// Repo is the progress surface of the store.
type Repo interface {
	RecordResult(ctx context.Context, userID, lessonID int64, score, total int) error
	UserProgress(ctx context.Context, userID int64) (store.ProgressRow, error)
	Stats(ctx context.Context, userID int64) (store.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardRow, error)
}

// UserProgress is the lesson completion summary of one user.
type UserProgress struct {
	TotalLessons     int
	CompletedLessons int
	Percentage       float64
}

// Fraction returns Percentage as a value in [0, 1] for progress bars.
func (p UserProgress) Fraction() float64 {
	f := p.Percentage / 100
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// LeaderboardEntry is one ranked leaderboard row.
type LeaderboardEntry struct {
	Rank             int
	Username         string
	TotalScore       int
	LessonsCompleted int
	CurrentStreak    int
}

// Dashboard bundles what the home screen shows. Each part carries its own
// error so one failed read does not hide the others.
type Dashboard struct {
	Progress       UserProgress
	ProgressErr    error
	Stats          store.UserStats
	StatsErr       error
	Leaderboard    []LeaderboardEntry
	LeaderboardErr error
}

// Service wraps the progress procedures.
type Service struct {
	repo Repo
	log  *slog.Logger
}

// NewService creates a progress Service.
func NewService(repo Repo, logger *slog.Logger) *Service {
	return &Service{repo: repo, log: logging.OrDiscard(logger)}
}

// RecordResult hands a finished quiz to the backend. Aggregation happens
// there.
func (s *Service) RecordResult(ctx context.Context, userID, lessonID int64, score, total int) error {
	if err := s.repo.RecordResult(ctx, userID, lessonID, score, total); err != nil {
		s.log.Error("record result failed", "user_id", userID, "lesson_id", lessonID,
			"score", score, "total", total, "err", err)
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Progress returns the completion summary of userID, or the zero value and
// the error when the read fails.
func (s *Service) Progress(ctx context.Context, userID int64) (UserProgress, error) {
	row, err := s.repo.UserProgress(ctx, userID)
	if err != nil {
		s.log.Error("read progress failed", "user_id", userID, "err", err)
		return UserProgress{}, err
	}
	return UserProgress{
		TotalLessons:     row.TotalLessons,
		CompletedLessons: row.CompletedLessons,
		Percentage:       row.Percentage,
	}, nil
}

// Stats returns the stats of userID, or zero stats and the error.
func (s *Service) Stats(ctx context.Context, userID int64) (store.UserStats, error) {
	st, err := s.repo.Stats(ctx, userID)
	if err != nil {
		s.log.Error("read stats failed", "user_id", userID, "err", err)
		return store.UserStats{UserID: userID}, err
	}
	return st, nil
}

// Leaderboard returns up to limit entries ranked 1..N in the order the
// backend returned them. A non-positive limit means DefaultLeaderboardSize.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	rows, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		s.log.Error("read leaderboard failed", "limit", limit, "err", err)
		return []LeaderboardEntry{}, err
	}
	return Rank(rows), nil
}

// Rank numbers rows 1..N in their given order.
func Rank(rows []store.LeaderboardRow) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = LeaderboardEntry{
			Rank:             i + 1,
			Username:         r.Username,
			TotalScore:       r.TotalScore,
			LessonsCompleted: r.LessonsCompleted,
			CurrentStreak:    r.CurrentStreak,
		}
	}
	return out
}

// Dashboard reads progress, stats and the top limit leaderboard entries.
func (s *Service) Dashboard(ctx context.Context, userID int64, limit int) Dashboard {
	var d Dashboard
	d.Progress, d.ProgressErr = s.Progress(ctx, userID)
	d.Stats, d.StatsErr = s.Stats(ctx, userID)
	d.Leaderboard, d.LeaderboardErr = s.Leaderboard(ctx, limit)
	return d
}
