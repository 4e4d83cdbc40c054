// Package llm talks to hosted language models. Every backend satisfies
// Provider; middleware adds logging, retries and a deadline.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate sends req and returns the model output. With req.Schema set
	// the output is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the model requests are sent to.
	ModelID() string
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema the output must satisfy. Name must be unique per
// definition; compiled schemas are cached by it.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is a single generation call.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Prompt builds a single-turn request.
func Prompt(system, user string, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		MaxTokens: maxTokens,
	}
}

// Stop reasons, normalized across backends.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Usage counts tokens of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// Response is the output of a call.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &Error{Kind: KindInvalid, Raw: r.Content, Err: err}
	}
	return nil
}

// resolveModel maps a short alias to a full model id. Unknown names pass
// through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
