package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted outcome of a Stub.
type Reply struct {
	JSON string
	Err  error
}

// Stub is a Provider that plays back scripted replies in order and records
// the requests it saw. It runs schema validation like a real backend.
type Stub struct {
	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewStub returns a Stub that answers with replies in order.
func NewStub(replies ...Reply) *Stub {
	return &Stub{replies: replies}
}

func (s *Stub) ModelID() string { return "stub" }

// Generate returns the next reply. With none left it reports the backend
// as unavailable.
func (s *Stub) Generate(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	if len(s.replies) == 0 {
		return nil, &Error{Kind: KindUnavailable}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}

	resp := &Response{Content: json.RawMessage(r.JSON), Model: "stub", StopReason: StopEnd}
	if req.Schema != nil {
		if err := validate(req.Schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Requests returns a copy of the requests received so far.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}
