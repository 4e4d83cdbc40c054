package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qirim.log")

	logger, closer, err := Setup(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("quiz finished", "user_id", 7)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "quiz finished") || !strings.Contains(out, "user_id=7") {
		t.Errorf("log output missing record: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record should be filtered at info level: %q", out)
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("expected a logger for nil input")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Error("expected the given logger to be returned")
	}
}
