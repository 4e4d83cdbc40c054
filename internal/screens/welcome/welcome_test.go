package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/qirim/qirim/internal/router"
	"github.com/qirim/qirim/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "login" }
func (s *stubScreen) Title() string                           { return "Log in" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestBannerAppearsAfterDelay(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(100, 30), Tagline) {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 5)
	if !strings.Contains(w.View(100, 30), Tagline) {
		t.Error("tagline should be visible after the banner delay")
	}
	if strings.Contains(w.View(100, 30), "press any key") {
		t.Error("continue hint should wait for the full animation")
	}

	sendTicks(w, 20)
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, totalDur)
	}
	if !strings.Contains(w.View(100, 30), "press any key") {
		t.Error("continue hint should be visible after the animation")
	}
}

func TestKeypressReplacesOnce(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger the transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg with a screen, got %T", cmd())
	}

	if _, again := w.Update(tea.KeyPressMsg{Code: 'a'}); again != nil {
		t.Error("second keypress should not produce a command")
	}
	if *calls != 1 {
		t.Errorf("next screen built %d times, want 1", *calls)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: ' '})
	if _, cmd := w.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("no further ticks after the transition")
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 40)
	if *calls != 0 {
		t.Errorf("next screen built without a keypress")
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(30), bannerCompact) {
		t.Error("narrow terminals should get the compact banner")
	}
}
