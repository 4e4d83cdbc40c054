// Package course loads the theme/lesson tree and tracks which theme the
// home screen is showing.
package course

import (
	"context"
	"log/slog"

	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/store"
)

// Lesson is one entry of a theme's lesson list.
type Lesson struct {
	ID      int64
	Title   string
	Number  int
	ThemeID int64
}

// Theme is a course unit with its lessons in lesson-number order.
type Theme struct {
	ID      int64
	Name    string
	Number  int
	Lessons []Lesson
}

// Tree is the ordered course content. Err is set when the tree could not be
// read; Themes is then empty.
type Tree struct {
	Themes []Theme
	Err    error
}

// Empty reports whether the tree has no themes.
func (t Tree) Empty() bool { return len(t.Themes) == 0 }

// LessonMark is the per-user decoration of a lesson in the list.
type LessonMark struct {
	Completed bool
	Score     int
}

// Repo is the course read surface of the store.
type Repo interface {
	Themes(ctx context.Context) ([]store.Theme, error)
	Lessons(ctx context.Context) ([]store.Lesson, error)
}

// MarkRepo reads per-user lesson progress.
type MarkRepo interface {
	LessonMark(ctx context.Context, userID, lessonID int64) (store.LessonMark, error)
	LessonMarks(ctx context.Context, userID int64, lessonIDs []int64) (map[int64]store.LessonMark, error)
}

// Service reads course content and lesson marks.
type Service struct {
	repo  Repo
	marks MarkRepo
	log   *slog.Logger
}

// NewService creates a course Service.
func NewService(repo Repo, marks MarkRepo, logger *slog.Logger) *Service {
	return &Service{repo: repo, marks: marks, log: logging.OrDiscard(logger)}
}

// LoadTree reads every theme with its lessons. A read failure is logged and
// reported through Tree.Err with an empty tree.
func (s *Service) LoadTree(ctx context.Context) Tree {
	themes, err := s.repo.Themes(ctx)
	if err != nil {
		s.log.Error("load themes failed", "err", err)
		return Tree{Err: err}
	}
	lessons, err := s.repo.Lessons(ctx)
	if err != nil {
		s.log.Error("load lessons failed", "err", err)
		return Tree{Err: err}
	}

	byTheme := make(map[int64][]Lesson, len(themes))
	for _, l := range lessons {
		byTheme[l.ThemeID] = append(byTheme[l.ThemeID], Lesson{
			ID:      l.ID,
			Title:   l.Name,
			Number:  l.Number,
			ThemeID: l.ThemeID,
		})
	}

	tree := Tree{Themes: make([]Theme, 0, len(themes))}
	for _, t := range themes {
		tree.Themes = append(tree.Themes, Theme{
			ID:      t.ID,
			Name:    t.Name,
			Number:  t.Number,
			Lessons: byTheme[t.ID],
		})
	}
	return tree
}

// IsLessonCompleted reports whether userID has completed lessonID. A missing
// row is false; on a read failure the result is false with the error.
func (s *Service) IsLessonCompleted(ctx context.Context, userID, lessonID int64) (bool, error) {
	m, err := s.marks.LessonMark(ctx, userID, lessonID)
	if err != nil {
		s.log.Error("read lesson completion failed", "user_id", userID, "lesson_id", lessonID, "err", err)
		return false, err
	}
	return m.Completed, nil
}

// BestScore returns the best recorded score of userID on lessonID, or 0.
func (s *Service) BestScore(ctx context.Context, userID, lessonID int64) (int, error) {
	m, err := s.marks.LessonMark(ctx, userID, lessonID)
	if err != nil {
		s.log.Error("read best score failed", "user_id", userID, "lesson_id", lessonID, "err", err)
		return 0, err
	}
	return m.Score, nil
}

// Decorate returns the marks of lessons for userID in one read. Lessons
// without progress, and all lessons when the read fails, are absent from
// the map and render as not completed.
func (s *Service) Decorate(ctx context.Context, userID int64, lessons []Lesson) map[int64]LessonMark {
	out := make(map[int64]LessonMark, len(lessons))
	if userID <= 0 || len(lessons) == 0 {
		return out
	}
	ids := make([]int64, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	marks, err := s.marks.LessonMarks(ctx, userID, ids)
	if err != nil {
		s.log.Error("read lesson marks failed", "user_id", userID, "err", err)
		return out
	}
	for id, m := range marks {
		out[id] = LessonMark{Completed: m.Completed, Score: m.Score}
	}
	return out
}
