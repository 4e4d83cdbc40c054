package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qirim/qirim/internal/store"
	"github.com/qirim/qirim/internal/store/storetest"
)

func TestLLMRequests_AppendAndRead(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	repo := s.LLMRequests()

	calls := []store.LLMRequest{
		{Provider: "anthropic", Model: "haiku", Purpose: "explain-misses", InputTokens: 100, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "anthropic", Model: "haiku", Purpose: "explain-misses", LatencyMs: 100, ErrorMessage: "llm: rate limit"},
		{Provider: "anthropic", Model: "haiku", Purpose: "ping", InputTokens: 10, OutputTokens: 2, LatencyMs: 50, Success: true},
	}
	for _, c := range calls {
		require.NoError(t, repo.Append(ctx, c))
	}

	recent, err := repo.Recent(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "ping", recent[0].Purpose, "newest first")
	assert.False(t, recent[1].Success)
	assert.Equal(t, "llm: rate limit", recent[1].ErrorMessage)
	assert.False(t, recent[0].CreatedAt.IsZero())

	explain, err := repo.Recent(ctx, 0, "explain-misses")
	require.NoError(t, err)
	assert.Len(t, explain, 2)

	usage, err := repo.UsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, store.LLMUsage{Purpose: "explain-misses", Calls: 2, InputTokens: 100, OutputTokens: 40, AvgLatencyMs: 200}, usage[0])
	assert.Equal(t, "ping", usage[1].Purpose)
}
