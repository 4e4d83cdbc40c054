package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is wrapped by AuthError for unknown usernames
	// and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is wrapped by PersistenceError when registering an
	// existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken is wrapped by PersistenceError when registering an
	// existing email.
	ErrEmailTaken = errors.New("email already exists")
)

// ValidationError lists every registration rule that failed.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid registration: " + strings.Join(e.Problems, "; ")
}

// AuthError reports a failed login.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PersistenceError reports a backend failure or a conflicting account.
// Op names the operation ("register", "login").
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for err on the login screen.
// Backend failures collapse to one generic message.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return strings.Join(ve.Problems, "\n")
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrUsernameTaken):
		return "This username is already taken."
	case errors.Is(err, ErrEmailTaken):
		return "This email is already registered."
	default:
		return "Something went wrong. Please try again later."
	}
}
