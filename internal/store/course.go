package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// CourseRepo reads and writes the theme/lesson/question tree.
type CourseRepo struct {
	s *Store
}

// Course returns a CourseRepo backed by this store.
func (s *Store) Course() *CourseRepo {
	return &CourseRepo{s: s}
}

// Themes returns all themes ordered by theme number.
func (r *CourseRepo) Themes(ctx context.Context) ([]Theme, error) {
	query, args := r.s.sel("theme_id", "theme_name", "theme_number").
		From(entsql.Table("themes")).
		OrderBy("theme_number").
		Query()

	var themes []Theme
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &themes, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select themes: %w", err)
	}
	return themes, nil
}

// Lessons returns every lesson ordered by theme then lesson number.
func (r *CourseRepo) Lessons(ctx context.Context) ([]Lesson, error) {
	query, args := r.s.sel("lesson_id", "lesson_name", "lesson_number", "theme_id").
		From(entsql.Table("lessons")).
		OrderBy("theme_id", "lesson_number").
		Query()

	var lessons []Lesson
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &lessons, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select lessons: %w", err)
	}
	return lessons, nil
}

// LessonsByTheme returns the lessons of one theme ordered by lesson number.
func (r *CourseRepo) LessonsByTheme(ctx context.Context, themeID int64) ([]Lesson, error) {
	query, args := r.s.sel("lesson_id", "lesson_name", "lesson_number", "theme_id").
		From(entsql.Table("lessons")).
		Where(entsql.EQ("theme_id", themeID)).
		OrderBy("lesson_number").
		Query()

	var lessons []Lesson
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &lessons, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select lessons of theme %d: %w", themeID, err)
	}
	return lessons, nil
}

// Questions returns the questions of a lesson ordered by question number,
// each with its options ordered by option number. Both reads share one
// scoped connection.
func (r *CourseRepo) Questions(ctx context.Context, lessonID int64) ([]Question, error) {
	qQuery, qArgs := r.s.sel("question_id", "question_text", "question_number", "lesson_id").
		From(entsql.Table("questions")).
		Where(entsql.EQ("lesson_id", lessonID)).
		OrderBy("question_number").
		Query()

	var questions []Question
	err := r.s.Do(ctx, func(q Querier) error {
		if err := sqlx.SelectContext(ctx, q, &questions, qQuery, qArgs...); err != nil {
			return fmt.Errorf("select questions: %w", err)
		}
		for i := range questions {
			oQuery, oArgs := r.s.sel("option_id", "question_id", "option_text", "option_number", "is_correct").
				From(entsql.Table("questions_options")).
				Where(entsql.EQ("question_id", questions[i].ID)).
				OrderBy("option_number").
				Query()
			if err := sqlx.SelectContext(ctx, q, &questions[i].Options, oQuery, oArgs...); err != nil {
				return fmt.Errorf("select options of question %d: %w", questions[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// NewQuestion is the write model for ImportLesson.
type NewQuestion struct {
	Text    string
	Options []NewOption
}

// NewOption is one answer choice of a NewQuestion.
type NewOption struct {
	Text    string
	Correct bool
}

// UpsertTheme returns the id of the theme with the given number, creating
// it or renaming it as needed.
func (r *CourseRepo) UpsertTheme(ctx context.Context, q Querier, number int, name string) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q, &id, q.Rebind(
		`INSERT INTO themes (theme_name, theme_number) VALUES (?, ?)
		 ON CONFLICT (theme_number) DO UPDATE SET theme_name = excluded.theme_name
		 RETURNING theme_id`), name, number)
	if err != nil {
		return 0, fmt.Errorf("upsert theme %d: %w", number, err)
	}
	return id, nil
}

// ReplaceLesson creates or renames the lesson (themeID, number) and replaces
// all of its questions and options. It returns the lesson id.
func (r *CourseRepo) ReplaceLesson(ctx context.Context, q Querier, themeID int64, number int, name string, questions []NewQuestion) (int64, error) {
	var lessonID int64
	err := sqlx.GetContext(ctx, q, &lessonID, q.Rebind(
		`INSERT INTO lessons (lesson_name, lesson_number, theme_id) VALUES (?, ?, ?)
		 ON CONFLICT (theme_id, lesson_number) DO UPDATE SET lesson_name = excluded.lesson_name
		 RETURNING lesson_id`), name, number, themeID)
	if err != nil {
		return 0, fmt.Errorf("upsert lesson %d: %w", number, err)
	}

	if _, err := q.ExecContext(ctx, q.Rebind(
		"DELETE FROM questions_options WHERE question_id IN (SELECT question_id FROM questions WHERE lesson_id = ?)"),
		lessonID); err != nil {
		return 0, fmt.Errorf("clear options: %w", err)
	}
	if _, err := q.ExecContext(ctx, q.Rebind("DELETE FROM questions WHERE lesson_id = ?"), lessonID); err != nil {
		return 0, fmt.Errorf("clear questions: %w", err)
	}

	for i, nq := range questions {
		var questionID int64
		if err := sqlx.GetContext(ctx, q, &questionID, q.Rebind(
			"INSERT INTO questions (question_text, question_number, lesson_id) VALUES (?, ?, ?) RETURNING question_id"),
			nq.Text, i+1, lessonID); err != nil {
			return 0, fmt.Errorf("insert question %d: %w", i+1, err)
		}
		for j, opt := range nq.Options {
			if _, err := q.ExecContext(ctx, q.Rebind(
				"INSERT INTO questions_options (question_id, option_text, option_number, is_correct) VALUES (?, ?, ?, ?)"),
				questionID, opt.Text, j+1, opt.Correct); err != nil {
				return 0, fmt.Errorf("insert option %d of question %d: %w", j+1, i+1, err)
			}
		}
	}
	return lessonID, nil
}
