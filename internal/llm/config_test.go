package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"QIRIM_LLM_PROVIDER", "QIRIM_LLM_API_KEY", "QIRIM_LLM_MODEL", "QIRIM_LLM_BASE_URL", "QIRIM_LLM_TIMEOUT",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_DisabledByDefault(t *testing.T) {
	clearLLMEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Enabled() {
		t.Fatalf("expected disabled config, got %+v", cfg)
	}
}

func TestConfigFromEnv_Explicit(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("QIRIM_LLM_PROVIDER", "openrouter")
	t.Setenv("QIRIM_LLM_API_KEY", "sk-or")
	t.Setenv("QIRIM_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenRouter || cfg.APIKey != "sk-or" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Model != defaultModels[ProviderOpenRouter] {
		t.Errorf("model = %q, want default", cfg.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestConfigFromEnv_VendorKeyDiscovery(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI || cfg.APIKey != "sk-openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigFromEnv_ProviderPicksMatchingVendorKey(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("QIRIM_LLM_PROVIDER", "gemini")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg := ConfigFromEnv()
	if cfg.APIKey != "g-key" {
		t.Errorf("api key = %q, want the gemini key", cfg.APIKey)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Provider: ProviderAnthropic, APIKey: "k"}, false},
		{"missing key", Config{Provider: ProviderGemini}, true},
		{"unknown", Config{Provider: "llama.cpp", APIKey: "k"}, true},
		{"disabled", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_WrapsProvider(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: ProviderOpenAI, APIKey: "k", Timeout: time.Second}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*timeoutProvider); !ok {
		t.Errorf("outermost provider = %T, want *timeoutProvider", p)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("model = %q", p.ModelID())
	}
}

func TestValidate_Schema(t *testing.T) {
	tests := []struct {
		raw  string
		ok   bool
		name string
	}{
		{`{"verdict":"yes"}`, true, "valid"},
		{`{"verdict":"maybe"}`, false, "enum"},
		{`{}`, false, "required"},
		{`{"verdict":"no","extra":1}`, false, "additional"},
		{`not json`, false, "syntax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(verdictSchema, json.RawMessage(tt.raw))
			if (err == nil) != tt.ok {
				t.Fatalf("Validate(%s) = %v", tt.raw, err)
			}
			if err != nil {
				if k, _ := KindOf(err); k != KindInvalid {
					t.Errorf("kind = %v, want invalid", k)
				}
			}
		})
	}
}

func TestStub_ValidatesAndRecords(t *testing.T) {
	stub := NewStub(Reply{JSON: `{"verdict":"perhaps"}`})
	req := Prompt("s", "u", 8)
	req.Schema = verdictSchema

	if _, err := stub.Generate(context.Background(), req); err == nil {
		t.Fatal("expected schema error")
	}
	if _, err := stub.Generate(context.Background(), req); err == nil {
		t.Fatal("expected exhausted stub to fail")
	}
	if got := stub.Requests(); len(got) != 2 || got[0].Messages[0].Content != "u" {
		t.Errorf("requests = %+v", got)
	}
}
