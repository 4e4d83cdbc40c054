package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/qirim/qirim/internal/logging"
	"github.com/qirim/qirim/internal/store"
)

// Identity is the authenticated user. It is handed to each screen that
// needs it instead of living in shared state.
type Identity struct {
	UserID   int64
	Username string
}

// Valid reports whether the identity refers to a persisted user.
func (i Identity) Valid() bool {
	return i.UserID > 0
}

// UserStore is the persistence the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (int64, error)
	Exists(ctx context.Context, column, value string) (bool, error)
	ByUsername(ctx context.Context, username string) (*store.User, error)
}

// Service registers and authenticates users.
type Service struct {
	users UserStore
	log   *slog.Logger
	cost  int
}

// NewService creates an auth Service.
func NewService(users UserStore, logger *slog.Logger) *Service {
	return &Service{
		users: users,
		log:   logging.OrDiscard(logger),
		cost:  bcrypt.DefaultCost,
	}
}

// Normalize lower-cases and trims an identifier (username or email).
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register validates the input, hashes the password and creates the user
// with zeroed stats. It returns the new user id.
func (s *Service) Register(ctx context.Context, username, password, email string) (int64, error) {
	username = Normalize(username)
	email = Normalize(email)
	password = strings.TrimSpace(password)

	if err := ValidateRegistration(username, password, email); err != nil {
		return 0, err
	}

	for _, c := range []struct {
		column, value string
		taken         error
	}{
		{"username", username, ErrUsernameTaken},
		{"email", email, ErrEmailTaken},
	} {
		exists, err := s.users.Exists(ctx, c.column, c.value)
		if err != nil {
			s.log.Error("registration lookup failed", "column", c.column, "err", err)
			return 0, &PersistenceError{Op: "register", Err: err}
		}
		if exists {
			return 0, &PersistenceError{Op: "register", Err: c.taken}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, &PersistenceError{Op: "register", Err: err}
	}

	id, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		// Lost a race with a concurrent registration.
		var dup *store.DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == "email" {
				return 0, &PersistenceError{Op: "register", Err: ErrEmailTaken}
			}
			return 0, &PersistenceError{Op: "register", Err: ErrUsernameTaken}
		}
		s.log.Error("create user failed", "username", username, "err", err)
		return 0, &PersistenceError{Op: "register", Err: err}
	}

	s.log.Info("user registered", "user_id", id, "username", username)
	return id, nil
}

// Login checks the password against the stored hash and returns the
// identity. Unknown users and wrong passwords both yield an *AuthError.
func (s *Service) Login(ctx context.Context, username, password string) (Identity, error) {
	username = Normalize(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return Identity{}, &AuthError{Err: ErrInvalidCredentials}
	}

	u, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return Identity{}, &AuthError{Err: ErrInvalidCredentials}
	}
	if err != nil {
		s.log.Error("login lookup failed", "username", username, "err", err)
		return Identity{}, &PersistenceError{Op: "login", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Identity{}, &AuthError{Err: ErrInvalidCredentials}
	}

	s.log.Info("user logged in", "user_id", u.ID)
	return Identity{UserID: u.ID, Username: u.Username}, nil
}
