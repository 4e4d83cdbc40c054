package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// DuplicateError reports a unique constraint violation on Field.
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %v", e.Field, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// mapUnique converts a driver unique-constraint error on one of fields into
// a *DuplicateError. Other errors are returned unchanged.
func mapUnique(err error, fields ...string) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != uniqueViolation {
			return err
		}
		for _, f := range fields {
			if strings.Contains(pqErr.Constraint, f) || strings.Contains(pqErr.Detail, "("+f+")") {
				return &DuplicateError{Field: f, Err: err}
			}
		}
		return err
	}

	// modernc reports "UNIQUE constraint failed: users.email".
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	for _, f := range fields {
		if strings.Contains(msg, "."+f) {
			return &DuplicateError{Field: f, Err: err}
		}
	}
	return err
}
