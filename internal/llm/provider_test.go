package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"
)

var verdictSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{"type": "string", "enum": []any{"yes", "no"}},
		},
		"required":             []any{"verdict"},
		"additionalProperties": false,
	},
}

func serve(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 12, "output_tokens": 4},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func TestAnthropic_Generate(t *testing.T) {
	url := serve(t, http.StatusOK, anthropicMessage(`{"verdict":"yes"}`, "end_turn"))
	p, err := NewAnthropic("key", "haiku", url)
	if err != nil {
		t.Fatal(err)
	}

	req := Prompt("sys", "is it?", 64)
	req.Schema = verdictSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out struct{ Verdict string }
	if err := resp.Decode(&out); err != nil || out.Verdict != "yes" {
		t.Errorf("decode = %+v, %v", out, err)
	}
	if resp.Usage.Total() != 16 || resp.StopReason != StopEnd {
		t.Errorf("usage = %+v stop = %q", resp.Usage, resp.StopReason)
	}
}

func TestAnthropic_SchemaViolation(t *testing.T) {
	url := serve(t, http.StatusOK, anthropicMessage(`{"verdict":"maybe"}`, "end_turn"))
	p, _ := NewAnthropic("key", "haiku", url)

	req := Prompt("", "is it?", 64)
	req.Schema = verdictSchema
	_, err := p.Generate(context.Background(), req)
	if k, ok := KindOf(err); !ok || k != KindInvalid {
		t.Fatalf("err = %v, want invalid", err)
	}
}

func TestAnthropic_Truncated(t *testing.T) {
	url := serve(t, http.StatusOK, anthropicMessage(`{"verd`, "max_tokens"))
	p, _ := NewAnthropic("key", "haiku", url)

	req := Prompt("", "is it?", 4)
	req.Schema = verdictSchema
	_, err := p.Generate(context.Background(), req)
	if k, _ := KindOf(err); k != KindTruncated {
		t.Fatalf("err = %v, want truncated", err)
	}
}

func TestAnthropic_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusUnauthorized, KindRejected},
		{http.StatusInternalServerError, KindUnavailable},
	}
	for _, tt := range tests {
		url := serve(t, tt.status, anthropicError("some_error"))
		p, _ := NewAnthropic("key", "haiku", url)
		_, err := p.Generate(context.Background(), Prompt("", "x", 8))
		if k, _ := KindOf(err); k != tt.kind {
			t.Errorf("status %d: kind = %v, want %v (%v)", tt.status, k, tt.kind, err)
		}
	}
}

func TestAnthropic_PlainText(t *testing.T) {
	url := serve(t, http.StatusOK, anthropicMessage("merhaba", "end_turn"))
	p, _ := NewAnthropic("key", "claude-custom", url)
	if p.ModelID() != "claude-custom" {
		t.Errorf("model = %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), Prompt("", "hi", 8))
	if err != nil {
		t.Fatal(err)
	}
	var s string
	if err := resp.Decode(&s); err != nil || s != "merhaba" {
		t.Errorf("text = %q, %v", s, err)
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 5, "total_tokens": 25},
	}
}

func TestOpenAI_Generate(t *testing.T) {
	url := serve(t, http.StatusOK, chatCompletion(`{"verdict":"no"}`, "stop"))
	p, err := NewOpenAI("key", "gpt-4o-mini", url)
	if err != nil {
		t.Fatal(err)
	}

	req := Prompt("sys", "is it?", 64)
	req.Schema = verdictSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"verdict":"no"}` || resp.Usage.InputTokens != 20 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	body := chatCompletion("", "stop")
	body["choices"] = []any{}
	url := serve(t, http.StatusOK, body)
	p, _ := NewOpenAI("key", "gpt-4o-mini", url)

	_, err := p.Generate(context.Background(), Prompt("", "x", 8))
	if k, _ := KindOf(err); k != KindInvalid {
		t.Fatalf("err = %v, want invalid", err)
	}
}

func TestOpenAI_RateLimit(t *testing.T) {
	url := serve(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "slow down", "type": "rate_limit"},
	})
	p, _ := NewOpenAI("key", "gpt-4o-mini", url)

	_, err := p.Generate(context.Background(), Prompt("", "x", 8))
	if k, _ := KindOf(err); k != KindRateLimit {
		t.Fatalf("err = %v, want rate limited", err)
	}
}

func TestOpenRouter_Defaults(t *testing.T) {
	if _, err := NewOpenRouter("", "m", ""); err == nil {
		t.Error("expected error for missing key")
	}
	p, err := NewOpenRouter("key", "meta-llama/llama-3.1-8b-instruct", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "meta-llama/llama-3.1-8b-instruct" || p.name != "openrouter" {
		t.Errorf("provider = %q/%q", p.name, p.ModelID())
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
			"level": map[string]any{"type": "string", "enum": []any{"a", "b"}},
			"odd":   map[string]any{"type": "tuple"},
		},
		"required": []string{"items"},
	})

	if s.Type != genai.TypeObject || len(s.Properties) != 3 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Properties["items"].Items.Type != genai.TypeInteger {
		t.Errorf("items type = %v", s.Properties["items"].Items.Type)
	}
	if len(s.Properties["level"].Enum) != 2 {
		t.Errorf("enum = %v", s.Properties["level"].Enum)
	}
	if s.Properties["odd"].Type != genai.TypeString {
		t.Errorf("unknown type should fall back to string, got %v", s.Properties["odd"].Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "items" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("flash", geminiAliases); got != "gemini-2.0-flash" {
		t.Errorf("flash -> %q", got)
	}
	if got := resolveModel("sonnet", anthropicAliases); got != "claude-sonnet-4-20250514" {
		t.Errorf("sonnet -> %q", got)
	}
	if got := resolveModel("gemini-exp-1206", geminiAliases); got != "gemini-exp-1206" {
		t.Errorf("pass-through -> %q", got)
	}
}
