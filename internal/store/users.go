package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// UserRepo reads and writes user accounts.
type UserRepo struct {
	s *Store
}

// Users returns a UserRepo backed by this store.
func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s}
}

// Create inserts the user and its zero-valued stats row in one transaction,
// so a failure never leaves a user without stats. Unique violations are
// reported as *DuplicateError with Field "username" or "email".
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (int64, error) {
	var id int64
	err := r.s.InTx(ctx, func(q Querier) error {
		err := sqlx.GetContext(ctx, q, &id, q.Rebind(
			"INSERT INTO users (username, email, password) VALUES (?, ?, ?) RETURNING id"),
			username, email, passwordHash)
		if err != nil {
			return fmt.Errorf("insert user: %w", mapUnique(err, "username", "email"))
		}
		if _, err := q.ExecContext(ctx, q.Rebind(
			"INSERT INTO user_stats (user_id, total_score, lessons_completed, current_streak, longest_streak) VALUES (?, 0, 0, 0, 0)"),
			id); err != nil {
			return fmt.Errorf("insert user stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Exists reports whether a user with the given value in column ("username"
// or "email") exists.
func (r *UserRepo) Exists(ctx context.Context, column, value string) (bool, error) {
	if column != "username" && column != "email" {
		return false, fmt.Errorf("unsupported column %q", column)
	}
	query, args := r.s.sel("id").
		From(entsql.Table("users")).
		Where(entsql.EQ(column, value)).
		Limit(1).
		Query()

	var id int64
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.GetContext(ctx, q, &id, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return true, nil
}

// ByUsername returns the user with the given username, or ErrNotFound.
func (r *UserRepo) ByUsername(ctx context.Context, username string) (*User, error) {
	query, args := r.s.sel("id", "username", "email", "password").
		From(entsql.Table("users")).
		Where(entsql.EQ("username", username)).
		Query()

	var u User
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.GetContext(ctx, q, &u, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}
