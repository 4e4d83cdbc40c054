package auth

import (
	"errors"
	"slices"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		email    string
		want     []string
	}{
		{"valid", "marta", "Password1", "marta@example.com", nil},
		{"empty username", "", "Password1", "marta@example.com", []string{MsgFieldsRequired}},
		{"empty password", "marta", "", "marta@example.com", []string{MsgFieldsRequired}},
		{"empty email", "marta", "Password1", "", []string{MsgFieldsRequired}},
		{"short username", "ma", "Password1", "marta@example.com", []string{MsgUsernameTooShort}},
		{"no uppercase", "marta", "abcdefg1", "marta@example.com", []string{MsgPasswordUpper}},
		{"no lowercase", "marta", "ABCDEFG1", "marta@example.com", []string{MsgPasswordLower}},
		{"no digit", "marta", "Abcdefgh", "marta@example.com", []string{MsgPasswordDigit}},
		{"short password", "marta", "Abc1234", "marta@example.com", []string{MsgPasswordTooShort}},
		{"double at", "marta", "Password1", "bad@@x", []string{MsgEmailInvalid}},
		{"several failures", "ma", "abc", "x@y", []string{
			MsgUsernameTooShort, MsgPasswordTooShort, MsgPasswordUpper, MsgPasswordDigit, MsgEmailInvalid,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.password, tt.email)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if !slices.Equal(ve.Problems, tt.want) {
				t.Errorf("problems = %q, want %q", ve.Problems, tt.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"marta@example.com", true},
		{"abc@mail.co.ua", true},
		{"ab@example.com", false},     // local part too short
		{"marta@example", false},      // no dot in domain
		{"marta@@example.com", false}, // two @
		{"marta@exa..mple.com", false},
		{"mar..ta@example.com", false},
		{"marta.example.com", false},
		{"marta @example.com", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Problems: []string{"a", "b"}}, "a\nb"},
		{"credentials", &AuthError{Err: ErrInvalidCredentials}, "Invalid username or password."},
		{"username taken", &PersistenceError{Op: "register", Err: ErrUsernameTaken}, "This username is already taken."},
		{"email taken", &PersistenceError{Op: "register", Err: ErrEmailTaken}, "This email is already registered."},
		{"backend", &PersistenceError{Op: "login", Err: errors.New("connection refused")}, "Something went wrong. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
