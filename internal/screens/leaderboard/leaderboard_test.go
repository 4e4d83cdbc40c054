package leaderboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/auth"
	"github.com/qirim/qirim/internal/progress"
	"github.com/qirim/qirim/internal/screen/screentest"
	"github.com/qirim/qirim/internal/store"
	"github.com/qirim/qirim/internal/store/storetest"
)

type failingRepo struct{ progress.Repo }

func (failingRepo) Leaderboard(context.Context, int) ([]store.LeaderboardRow, error) {
	return nil, errors.New("connection refused")
}

func TestRenderTable(t *testing.T) {
	entries := []progress.LeaderboardEntry{
		{Rank: 1, Username: "emine", TotalScore: 12, LessonsCompleted: 4, CurrentStreak: 3},
		{Rank: 2, Username: "ayse", TotalScore: 7, LessonsCompleted: 2, CurrentStreak: 1},
	}
	out := RenderTable(entries, "ayse", 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), out)
	}
	for i, want := range []string{"Score", "emine", "ayse"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
	if strings.Index(lines[1], "emine") > strings.Index(lines[1], "12") {
		t.Error("score column should follow the name")
	}
}

func TestRenderTableTruncatesLongNames(t *testing.T) {
	entries := []progress.LeaderboardEntry{{Rank: 1, Username: strings.Repeat("q", 40), TotalScore: 1}}
	if out := RenderTable(entries, "", 30); !strings.Contains(out, "…") {
		t.Errorf("long name should be truncated:\n%s", out)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if out := RenderTable(nil, "ayse", 40); !strings.Contains(out, msgEmpty) {
		t.Errorf("empty table = %q", out)
	}
}

func TestLoadsRankedEntries(t *testing.T) {
	svc, st := screentest.Services(t)
	ids := storetest.Seed(t, st, storetest.Lesson{Theme: 1, Number: 1, Name: "Aile", Correct: []int{0, 0, 0}})
	ayse := screentest.Identity(t, st, "ayse")
	emine := screentest.Identity(t, st, "emine")
	ctx := context.Background()
	if err := svc.Progress.RecordResult(ctx, ayse.UserID, ids[0], 1, 3); err != nil {
		t.Fatal(err)
	}
	if err := svc.Progress.RecordResult(ctx, emine.UserID, ids[0], 3, 3); err != nil {
		t.Fatal(err)
	}

	s := New(svc.Progress, ayse, 5)
	s.Update(s.Init()())

	got := s.Entries()
	if len(got) != 2 || got[0].Username != "emine" || got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("entries = %+v, want emine first", got)
	}
	if !strings.Contains(s.View(100, 30), "Top 5") {
		t.Error("panel should name the limit")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Error("r should refresh")
	}
}

func TestLoadError(t *testing.T) {
	s := New(progress.NewService(failingRepo{}, nil), auth.Identity{Username: "ayse"}, 5)
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), msgLoadFailed) {
		t.Error("a failed read should be reported")
	}
}
