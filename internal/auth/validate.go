package auth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 8
	minEmailLocalPart = 3
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validation messages, one per rule.
const (
	MsgFieldsRequired   = "All fields are required."
	MsgUsernameTooShort = "Username must be at least 3 characters."
	MsgPasswordTooShort = "Password must be at least 8 characters."
	MsgPasswordUpper    = "Password must contain an uppercase letter."
	MsgPasswordLower    = "Password must contain a lowercase letter."
	MsgPasswordDigit    = "Password must contain a digit."
	MsgEmailInvalid     = "Email address is not valid."
)

// ValidateRegistration checks already-normalized registration input and
// returns a *ValidationError listing every failed rule, or nil.
func ValidateRegistration(username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return &ValidationError{Problems: []string{MsgFieldsRequired}}
	}

	var problems []string
	if utf8.RuneCountInString(username) < MinUsernameLength {
		problems = append(problems, MsgUsernameTooShort)
	}
	problems = append(problems, passwordProblems(password)...)
	if !ValidEmail(email) {
		problems = append(problems, MsgEmailInvalid)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func passwordProblems(password string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, MsgPasswordTooShort)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		problems = append(problems, MsgPasswordUpper)
	}
	if !lower {
		problems = append(problems, MsgPasswordLower)
	}
	if !digit {
		problems = append(problems, MsgPasswordDigit)
	}
	return problems
}

// ValidEmail applies the format rules: pattern match, exactly one "@", a
// local part of at least three characters, a dotted domain and no
// consecutive dots.
func ValidEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	if strings.Count(email, "@") != 1 || strings.Contains(email, "..") {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	return len(local) >= minEmailLocalPart && strings.Contains(domain, ".")
}
