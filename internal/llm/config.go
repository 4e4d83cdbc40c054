package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

var defaultModels = map[string]string{
	ProviderAnthropic:  "haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderGemini:     "flash",
}

// Config selects and configures one backend. The zero value is disabled.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Retry    RetryPolicy

	// Recorder, when set, receives every backend call. It is not read
	// from the environment.
	Recorder Recorder
}

// RetryPolicy bounds retries of transient failures.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetry is used when a Config leaves Retry unset.
var DefaultRetry = RetryPolicy{Attempts: 3, Base: 500 * time.Millisecond, Max: 8 * time.Second}

// Enabled reports whether a backend is selected.
func (c Config) Enabled() bool { return c.Provider != "" }

// ConfigFromEnv reads QIRIM_LLM_* variables. Without QIRIM_LLM_PROVIDER it
// falls back to the first vendor key found in ANTHROPIC_API_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY. With neither the
// result is disabled.
func ConfigFromEnv() Config {
	cfg := Config{
		Provider: os.Getenv("QIRIM_LLM_PROVIDER"),
		APIKey:   os.Getenv("QIRIM_LLM_API_KEY"),
		Model:    os.Getenv("QIRIM_LLM_MODEL"),
		BaseURL:  os.Getenv("QIRIM_LLM_BASE_URL"),
		Timeout:  30 * time.Second,
		Retry:    DefaultRetry,
	}
	if v := os.Getenv("QIRIM_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	vendorKeys := []struct{ provider, env string }{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderGemini, "GEMINI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
	}
	for _, vk := range vendorKeys {
		key := os.Getenv(vk.env)
		if key == "" {
			continue
		}
		if cfg.Provider == "" {
			cfg.Provider = vk.provider
		}
		if cfg.APIKey == "" && cfg.Provider == vk.provider {
			cfg.APIKey = key
		}
	}

	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	return cfg
}

// Validate checks the provider name and that an API key is present.
func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("llm provider %s needs QIRIM_LLM_API_KEY", c.Provider)
	}
	return nil
}

// New builds the configured backend wrapped as
// timeout -> retry -> logging -> backend.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = defaultModels[cfg.Provider]
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouter(cfg.APIKey, model, cfg.BaseURL)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.APIKey, model)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}

	retry := cfg.Retry
	if retry.Attempts == 0 {
		retry = DefaultRetry
	}
	p := WithLogging(base, logger)
	if cfg.Recorder != nil {
		p = WithAudit(p, cfg.Provider, cfg.Recorder)
	}
	p = WithRetry(p, retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}
