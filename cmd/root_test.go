package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/qirim/qirim/internal/config"
)

func newFlagged(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().AddFlagSet(rootCmd.PersistentFlags())
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return c
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("QIRIM_DB_DRIVER", "sqlite")
	t.Setenv("QIRIM_DB", "/tmp/from-env.db")

	cfg, err := loadConfig(newFlagged(t, "--db", t.TempDir()+"/flag.db", "--env-file", t.TempDir()+"/missing.env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DBDriver != config.DriverSQLite {
		t.Errorf("driver = %q", cfg.DBDriver)
	}
	if cfg.SQLitePath == "/tmp/from-env.db" {
		t.Error("--db should win over QIRIM_DB")
	}
}

func TestLoadConfig_PostgresNeedsURL(t *testing.T) {
	t.Setenv("QIRIM_DATABASE_URL", "")
	_, err := loadConfig(newFlagged(t, "--db-driver", "postgres", "--env-file", t.TempDir()+"/missing.env"))
	if err == nil {
		t.Fatal("postgres without a URL should be rejected")
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("sk-abcdef1234"); got != "********1234" {
		t.Errorf("maskKey = %q", got)
	}
	if got := maskKey("abc"); got != "***" {
		t.Errorf("maskKey short = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("emineçelebi", 5); got != "emine" {
		t.Errorf("truncate = %q", got)
	}
}

func TestCurrentVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.2.0"
	if got := currentVersion(); got != "v1.2.0" {
		t.Errorf("currentVersion() = %q, want the stamped version", got)
	}

	version = ""
	if got := currentVersion(); got == "" {
		t.Error("currentVersion() should never be empty")
	}
}
