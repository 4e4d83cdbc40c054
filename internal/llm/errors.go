package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx responses.
	KindUnavailable Kind = iota
	// KindRateLimit is a 429 response.
	KindRateLimit
	// KindInvalid is output that is not valid JSON or violates the schema.
	KindInvalid
	// KindTruncated is output cut off by the token limit.
	KindTruncated
	// KindRejected is a 4xx response other than 429, such as a bad key.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimit:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Error is returned by every Provider in this package.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	Raw        json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err and whether err is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// fromStatus classifies err by the HTTP status the backend answered with.
func fromStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: KindRejected, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Err: err}
	}
}
