package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"QIRIM_DB_DRIVER", "QIRIM_DATABASE_URL", "QIRIM_DB", "QIRIM_LOG_FILE",
		"QIRIM_LOG_LEVEL", "QIRIM_LEADERBOARD_SIZE", "QIRIM_FEEDBACK_DELAY",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, time.Second, cfg.FeedbackDelay)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("QIRIM_DB_DRIVER", "POSTGRES")
	t.Setenv("QIRIM_DATABASE_URL", "postgres://localhost/qirim?sslmode=disable")
	t.Setenv("QIRIM_LOG_LEVEL", "debug")
	t.Setenv("QIRIM_LEADERBOARD_SIZE", "25")
	t.Setenv("QIRIM_FEEDBACK_DELAY", "1500ms")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 25, cfg.LeaderboardSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.FeedbackDelay)

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/qirim?sslmode=disable", dsn)
}

func TestFromEnv_BadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"leaderboard size", "QIRIM_LEADERBOARD_SIZE", "ten"},
		{"feedback delay", "QIRIM_FEEDBACK_DELAY", "soon"},
		{"log level", "QIRIM_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"sqlite default", func(*Config) {}, false},
		{"postgres without url", func(c *Config) { c.DBDriver = DriverPostgres }, true},
		{"postgres with url", func(c *Config) {
			c.DBDriver = DriverPostgres
			c.DatabaseURL = "postgres://x"
		}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"zero leaderboard", func(c *Config) { c.LeaderboardSize = 0 }, true},
		{"negative delay", func(c *Config) { c.FeedbackDelay = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even to "".
	os.Unsetenv("QIRIM_DB")
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	dbPath := filepath.Join(dir, "data", "qirim.db")
	require.NoError(t, os.WriteFile(envFile, []byte("QIRIM_DB="+dbPath+"\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, dbPath, cfg.SQLitePath)

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, dbPath, dsn)
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "qirim", "qirim.db"), p)
}
