package llm

import (
	"context"
	"time"
)

// Call describes one finished backend call for auditing.
type Call struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
	Err          error
}

// Recorder stores audited calls. Errors from Record are not surfaced to the
// caller of Generate.
type Recorder interface {
	Record(ctx context.Context, c Call) error
}

type auditProvider struct {
	Provider
	name string
	rec  Recorder
}

// WithAudit hands every call made through p to rec.
func WithAudit(p Provider, name string, rec Recorder) Provider {
	return &auditProvider{Provider: p, name: name, rec: rec}
}

func (a *auditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := a.Provider.Generate(ctx, req)

	c := Call{
		Provider: a.name,
		Model:    a.ModelID(),
		Purpose:  Purpose(ctx),
		Latency:  time.Since(start),
		Err:      err,
	}
	if resp != nil {
		c.InputTokens = resp.Usage.InputTokens
		c.OutputTokens = resp.Usage.OutputTokens
	}
	// Record even when ctx is already done.
	_ = a.rec.Record(context.WithoutCancel(ctx), c)
	return resp, err
}
