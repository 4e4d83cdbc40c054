package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// LLMRequest is one audited call to the tutor's language model.
type LLMRequest struct {
	ID           int64     `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
}

// LLMUsage aggregates requests sharing a purpose.
type LLMUsage struct {
	Purpose      string `db:"purpose"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

// LLMRequestRepo appends and reads the llm_requests audit table.
type LLMRequestRepo struct {
	s *Store
}

// LLMRequests returns an LLMRequestRepo backed by this store.
func (s *Store) LLMRequests() *LLMRequestRepo {
	return &LLMRequestRepo{s: s}
}

// Append stores one request. CreatedAt and ID are assigned by the database.
func (r *LLMRequestRepo) Append(ctx context.Context, req LLMRequest) error {
	err := r.s.Do(ctx, func(q Querier) error {
		_, err := q.ExecContext(ctx, q.Rebind(
			`INSERT INTO llm_requests (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			req.Provider, req.Model, req.Purpose, req.InputTokens, req.OutputTokens,
			req.LatencyMs, req.Success, req.ErrorMessage)
		return err
	})
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// Recent returns up to limit requests, newest first. A non-empty purpose
// filters by purpose.
func (r *LLMRequestRepo) Recent(ctx context.Context, limit int, purpose string) ([]LLMRequest, error) {
	sel := r.s.sel("id", "created_at", "provider", "model", "purpose", "input_tokens",
		"output_tokens", "latency_ms", "success", "error_message").
		From(entsql.Table("llm_requests")).
		OrderBy(entsql.Desc("id"))
	if purpose != "" {
		sel = sel.Where(entsql.EQ("purpose", purpose))
	}
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var out []LLMRequest
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &out, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list llm requests: %w", err)
	}
	return out, nil
}

// UsageByPurpose sums token usage per purpose, busiest first.
func (r *LLMRequestRepo) UsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	var out []LLMUsage
	err := r.s.Do(ctx, func(q Querier) error {
		return sqlx.SelectContext(ctx, q, &out,
			`SELECT purpose, COUNT(*) AS calls,
			        COALESCE(SUM(input_tokens), 0) AS input_tokens,
			        COALESCE(SUM(output_tokens), 0) AS output_tokens,
			        CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms
			 FROM llm_requests
			 GROUP BY purpose
			 ORDER BY calls DESC, purpose`)
	})
	if err != nil {
		return nil, fmt.Errorf("llm usage by purpose: %w", err)
	}
	return out, nil
}
