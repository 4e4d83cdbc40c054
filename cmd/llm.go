package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/llm"
	"github.com/qirim/qirim/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the tutor's LLM configuration and requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		cfg := llm.ConfigFromEnv()
		if !cfg.Enabled() {
			fmt.Println("No LLM provider configured; the tutor is disabled.")
			fmt.Println("Set QIRIM_LLM_PROVIDER and QIRIM_LLM_API_KEY, or one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY.")
			return nil
		}

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Model:     %s\n", cfg.Model)
		if cfg.BaseURL != "" {
			fmt.Printf("Base URL:  %s\n", cfg.BaseURL)
		}
		fmt.Printf("API key:   %s\n", maskKey(cfg.APIKey))
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Problem:   %v\n", err)
		}
		return nil
	},
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a one-line request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, logger *slog.Logger) error {
			lcfg := llm.ConfigFromEnv()
			if !lcfg.Enabled() {
				return fmt.Errorf("no LLM provider configured")
			}
			lcfg.Recorder = auditRecorder{repo: st.LLMRequests()}
			provider, err := llm.New(ctx, lcfg, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			resp, err := provider.Generate(llm.WithPurpose(ctx, "ping"),
				llm.Prompt("Reply briefly.", "Say \"selam\" in Crimean Tatar.", 32))
			if err != nil {
				if kind, ok := llm.KindOf(err); ok {
					return fmt.Errorf("%s: %w", kind, err)
				}
				return err
			}

			var text string
			if json.Unmarshal(resp.Content, &text) != nil {
				text = string(resp.Content)
			}
			fmt.Printf("%s replied in %dms (%d tokens): %s\n",
				resp.Model, time.Since(start).Milliseconds(), resp.Usage.Total(), strings.TrimSpace(text))
			return nil
		})
	},
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, _ *slog.Logger) error {
			reqs, err := st.LLMRequests().Recent(ctx, limit, purpose)
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				fmt.Println("No LLM requests recorded.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-16s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 104))
			for _, r := range reqs {
				ok := "✓"
				if !r.Success {
					ok = "✗ " + r.ErrorMessage
				}
				fmt.Printf("%-5d  %-19s  %-16s  %-28s  %-6d  %-6d  %-7d  %s\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), truncate(r.Purpose, 16),
					truncate(r.Model, 28), r.InputTokens, r.OutputTokens, r.LatencyMs, ok)
			}
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, _ config.Config, st *store.Store, _ *slog.Logger) error {
			usage, err := st.LLMRequests().UsageByPurpose(ctx)
			if err != nil {
				return err
			}
			if len(usage) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}

			fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
			fmt.Println(strings.Repeat("─", 72))
			var calls, in, out int
			for _, u := range usage {
				fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
					truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
				calls += u.Calls
				in += u.InputTokens
				out += u.OutputTokens
			}
			fmt.Println(strings.Repeat("─", 72))
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
			return nil
		})
	},
}

// auditRecorder stores tutor calls in the llm_requests table.
type auditRecorder struct {
	repo *store.LLMRequestRepo
}

func (a auditRecorder) Record(ctx context.Context, c llm.Call) error {
	req := store.LLMRequest{
		Provider:     c.Provider,
		Model:        c.Model,
		Purpose:      c.Purpose,
		InputTokens:  c.InputTokens,
		OutputTokens: c.OutputTokens,
		LatencyMs:    c.Latency.Milliseconds(),
		Success:      c.Err == nil,
	}
	if c.Err != nil {
		req.ErrorMessage = c.Err.Error()
	}
	return a.repo.Append(ctx, req)
}

// maskKey keeps the last four characters of key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explain-misses)")

	llmCmd.AddCommand(llmPingCmd)
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
