package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// Migrate creates the tables, the leaderboard view and, on PostgreSQL, the
// progress functions. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == dialect.Postgres {
		stmts = postgresSchema
	}
	return s.Do(ctx, func(q Querier) error {
		for i, stmt := range stmts {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         SERIAL PRIMARY KEY,
		username   VARCHAR(50)  NOT NULL UNIQUE,
		email      VARCHAR(100) NOT NULL UNIQUE,
		password   VARCHAR(255) NOT NULL,
		created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id            INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_score        INTEGER NOT NULL DEFAULT 0,
		lessons_completed  INTEGER NOT NULL DEFAULT 0,
		current_streak     INTEGER NOT NULL DEFAULT 0,
		longest_streak     INTEGER NOT NULL DEFAULT 0,
		last_activity_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS themes (
		theme_id     SERIAL PRIMARY KEY,
		theme_name   VARCHAR(200) NOT NULL,
		theme_number INTEGER      NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		lesson_id     SERIAL PRIMARY KEY,
		lesson_name   VARCHAR(200) NOT NULL,
		lesson_number INTEGER      NOT NULL,
		theme_id      INTEGER      NOT NULL REFERENCES themes(theme_id) ON DELETE CASCADE,
		UNIQUE (theme_id, lesson_number)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		question_id     SERIAL PRIMARY KEY,
		question_text   TEXT    NOT NULL,
		question_number INTEGER NOT NULL,
		lesson_id       INTEGER NOT NULL REFERENCES lessons(lesson_id) ON DELETE CASCADE,
		UNIQUE (lesson_id, question_number)
	)`,
	`CREATE TABLE IF NOT EXISTS questions_options (
		option_id     SERIAL PRIMARY KEY,
		question_id   INTEGER NOT NULL REFERENCES questions(question_id) ON DELETE CASCADE,
		option_text   TEXT    NOT NULL,
		option_number INTEGER NOT NULL,
		is_correct    BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS user_lesson_progress (
		user_id         INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lesson_id       INTEGER NOT NULL REFERENCES lessons(lesson_id) ON DELETE CASCADE,
		completed       BOOLEAN NOT NULL DEFAULT FALSE,
		score           INTEGER NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL DEFAULT 0,
		completed_at    TIMESTAMP,
		PRIMARY KEY (user_id, lesson_id)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            SERIAL PRIMARY KEY,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		provider      VARCHAR(32)  NOT NULL,
		model         VARCHAR(128) NOT NULL,
		purpose       VARCHAR(64)  NOT NULL,
		input_tokens  INTEGER      NOT NULL DEFAULT 0,
		output_tokens INTEGER      NOT NULL DEFAULT 0,
		latency_ms    BIGINT       NOT NULL DEFAULT 0,
		success       BOOLEAN      NOT NULL,
		error_message TEXT         NOT NULL DEFAULT ''
	)`,
	`CREATE OR REPLACE VIEW leaderboard AS
		SELECT u.username, s.total_score, s.lessons_completed, s.current_streak
		FROM user_stats s JOIN users u ON u.id = s.user_id
		ORDER BY s.total_score DESC, s.lessons_completed DESC, u.username`,
	`CREATE OR REPLACE FUNCTION update_user_progress(
		p_user_id INTEGER, p_lesson_id INTEGER, p_score INTEGER, p_total INTEGER
	) RETURNS VOID AS $$
	DECLARE
		v_prev   INTEGER;
		v_last   DATE;
		v_streak INTEGER;
	BEGIN
		SELECT score INTO v_prev FROM user_lesson_progress
		WHERE user_id = p_user_id AND lesson_id = p_lesson_id;

		INSERT INTO user_lesson_progress (user_id, lesson_id, completed, score, total_questions, completed_at)
		VALUES (p_user_id, p_lesson_id, TRUE, p_score, p_total, NOW())
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			completed = TRUE,
			score = GREATEST(user_lesson_progress.score, EXCLUDED.score),
			total_questions = EXCLUDED.total_questions,
			completed_at = NOW();

		INSERT INTO user_stats (user_id) VALUES (p_user_id) ON CONFLICT (user_id) DO NOTHING;

		SELECT last_activity_date, current_streak INTO v_last, v_streak
		FROM user_stats WHERE user_id = p_user_id FOR UPDATE;

		IF v_last = CURRENT_DATE THEN
			v_streak := GREATEST(v_streak, 1);
		ELSIF v_last = CURRENT_DATE - 1 THEN
			v_streak := v_streak + 1;
		ELSE
			v_streak := 1;
		END IF;

		UPDATE user_stats SET
			total_score = total_score + GREATEST(p_score - COALESCE(v_prev, 0), 0),
			lessons_completed = (SELECT COUNT(*) FROM user_lesson_progress
				WHERE user_id = p_user_id AND completed),
			current_streak = v_streak,
			longest_streak = GREATEST(longest_streak, v_streak),
			last_activity_date = CURRENT_DATE
		WHERE user_id = p_user_id;
	END;
	$$ LANGUAGE plpgsql`,
	`CREATE OR REPLACE FUNCTION get_user_progress(p_user_id INTEGER)
	RETURNS TABLE (total_lessons BIGINT, completed_lessons BIGINT, progress_percentage NUMERIC) AS $$
	BEGIN
		RETURN QUERY
		SELECT t.total, c.done,
			CASE WHEN t.total = 0 THEN 0::NUMERIC
			     ELSE ROUND(c.done * 100.0 / t.total, 2) END
		FROM (SELECT COUNT(*) AS total FROM lessons) t,
		     (SELECT COUNT(*) AS done FROM user_lesson_progress
		      WHERE user_id = p_user_id AND completed) c;
	END;
	$$ LANGUAGE plpgsql`,
}

// SQLite has no stored procedures; progress.go emulates them in Go.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id            INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_score        INTEGER NOT NULL DEFAULT 0,
		lessons_completed  INTEGER NOT NULL DEFAULT 0,
		current_streak     INTEGER NOT NULL DEFAULT 0,
		longest_streak     INTEGER NOT NULL DEFAULT 0,
		last_activity_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS themes (
		theme_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		theme_name   TEXT    NOT NULL,
		theme_number INTEGER NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		lesson_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		lesson_name   TEXT    NOT NULL,
		lesson_number INTEGER NOT NULL,
		theme_id      INTEGER NOT NULL REFERENCES themes(theme_id) ON DELETE CASCADE,
		UNIQUE (theme_id, lesson_number)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		question_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		question_text   TEXT    NOT NULL,
		question_number INTEGER NOT NULL,
		lesson_id       INTEGER NOT NULL REFERENCES lessons(lesson_id) ON DELETE CASCADE,
		UNIQUE (lesson_id, question_number)
	)`,
	`CREATE TABLE IF NOT EXISTS questions_options (
		option_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id   INTEGER NOT NULL REFERENCES questions(question_id) ON DELETE CASCADE,
		option_text   TEXT    NOT NULL,
		option_number INTEGER NOT NULL,
		is_correct    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user_lesson_progress (
		user_id         INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lesson_id       INTEGER NOT NULL REFERENCES lessons(lesson_id) ON DELETE CASCADE,
		completed       INTEGER NOT NULL DEFAULT 0,
		score           INTEGER NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL DEFAULT 0,
		completed_at    TIMESTAMP,
		PRIMARY KEY (user_id, lesson_id)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		provider      TEXT      NOT NULL,
		model         TEXT      NOT NULL,
		purpose       TEXT      NOT NULL,
		input_tokens  INTEGER   NOT NULL DEFAULT 0,
		output_tokens INTEGER   NOT NULL DEFAULT 0,
		latency_ms    INTEGER   NOT NULL DEFAULT 0,
		success       INTEGER   NOT NULL,
		error_message TEXT      NOT NULL DEFAULT ''
	)`,
	`CREATE VIEW IF NOT EXISTS leaderboard AS
		SELECT u.username, s.total_score, s.lessons_completed, s.current_streak
		FROM user_stats s JOIN users u ON u.id = s.user_id
		ORDER BY s.total_score DESC, s.lessons_completed DESC, u.username`,
}
