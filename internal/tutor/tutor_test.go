package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/qirim/qirim/internal/llm"
	"github.com/qirim/qirim/internal/quiz"
)

func finishedSession(t *testing.T) *quiz.Session {
	t.Helper()
	opts := func(correct int) []quiz.Option {
		texts := []string{"ana", "baba", "qız", "oğlu"}
		out := make([]quiz.Option, len(texts))
		for i, s := range texts {
			out[i] = quiz.Option{ID: int64(i + 1), Text: s, Correct: i == correct}
		}
		return out
	}
	sess := quiz.New(1, 1, 0)
	err := sess.Load([]quiz.Question{
		{ID: 1, Text: "mother?", Options: opts(0), CorrectIndex: 0},
		{ID: 2, Text: "father?", Options: opts(1), CorrectIndex: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, choice := range []int{0, 2} {
		if err := sess.SelectAnswer(choice); err != nil {
			t.Fatal(err)
		}
		if _, err := sess.Reveal(); err != nil {
			t.Fatal(err)
		}
		if _, err := sess.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	return sess
}

func TestMisses(t *testing.T) {
	got := Misses(finishedSession(t))
	want := []Miss{{Question: "father?", Chosen: "qız", Correct: "baba"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("Misses = %+v, want %+v", got, want)
	}
}

func TestExplain(t *testing.T) {
	stub := llm.NewStub(llm.Reply{JSON: `{
		"items": [{"question": "father?", "explanation": "baba means father.", "tip": "Babam evde. (My father is at home.)"}],
		"encouragement": "Aferin!"
	}`})
	svc := NewService(stub, nil)

	ex, err := svc.Explain(context.Background(), "Aile", Misses(finishedSession(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ex.Items) != 1 || ex.Items[0].Question != "father?" || ex.Encouragement != "Aferin!" {
		t.Errorf("explanation = %+v", ex)
	}

	reqs := stub.Requests()
	if len(reqs) != 1 || reqs[0].Schema != ExplanationSchema {
		t.Fatalf("requests = %+v", reqs)
	}
	msg := reqs[0].Messages[0].Content
	for _, want := range []string{"Lesson: Aile", "Chosen: qız", "Correct: baba"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExplain_NothingMissed(t *testing.T) {
	stub := llm.NewStub()
	_, err := NewService(stub, nil).Explain(context.Background(), "Aile", nil)
	if !errors.Is(err, ErrNothingMissed) {
		t.Fatalf("err = %v, want ErrNothingMissed", err)
	}
	if len(stub.Requests()) != 0 {
		t.Error("provider should not be called")
	}
}

func TestExplain_InvalidOutput(t *testing.T) {
	stub := llm.NewStub(llm.Reply{JSON: `{"items": "nope"}`})
	_, err := NewService(stub, nil).Explain(context.Background(), "Aile", []Miss{{Question: "q"}})
	if k, ok := llm.KindOf(err); !ok || k != llm.KindInvalid {
		t.Fatalf("err = %v, want invalid response", err)
	}
}

func TestNewService_NilProvider(t *testing.T) {
	if NewService(nil, nil) != nil {
		t.Error("nil provider should yield a nil service")
	}
}
