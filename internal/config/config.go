package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the runtime settings for the application.
type Config struct {
	// DBDriver selects the backend: "sqlite" (local) or "postgres".
	DBDriver string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string

	LogFile  string
	LogLevel slog.Level

	// LeaderboardSize is the number of entries shown on the dashboard.
	LeaderboardSize int

	// FeedbackDelay is how long correctness stays on screen before the
	// quiz moves on.
	FeedbackDelay time.Duration
}

// Default returns a Config with local defaults. Paths are left empty and
// resolved lazily by DBPath and LogPath.
func Default() Config {
	return Config{
		DBDriver:        DriverSQLite,
		LogLevel:        slog.LevelInfo,
		LeaderboardSize: 10,
		FeedbackDelay:   time.Second,
	}
}

// Load reads an optional .env file and then the environment.
// A missing env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from QIRIM_* environment variables, falling back
// to defaults for unset values.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("QIRIM_DB_DRIVER"); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	cfg.DatabaseURL = os.Getenv("QIRIM_DATABASE_URL")
	cfg.SQLitePath = os.Getenv("QIRIM_DB")
	cfg.LogFile = os.Getenv("QIRIM_LOG_FILE")

	if v := os.Getenv("QIRIM_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse QIRIM_LOG_LEVEL: %w", err)
		}
	}
	if v := os.Getenv("QIRIM_LEADERBOARD_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse QIRIM_LEADERBOARD_SIZE: %w", err)
		}
		cfg.LeaderboardSize = n
	}
	if v := os.Getenv("QIRIM_FEEDBACK_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse QIRIM_FEEDBACK_DELAY: %w", err)
		}
		cfg.FeedbackDelay = d
	}

	return cfg, nil
}

// Validate checks driver and connection settings.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("QIRIM_DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver: %q", c.DBDriver)
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("leaderboard size must be positive, got %d", c.LeaderboardSize)
	}
	if c.FeedbackDelay < 0 {
		return fmt.Errorf("feedback delay must not be negative")
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() (string, error) {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL, nil
	}
	if c.SQLitePath != "" {
		return c.SQLitePath, EnsureDir(c.SQLitePath)
	}
	return DefaultDBPath()
}

// LogPath returns the configured log file or the XDG state default.
func (c Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, EnsureDir(c.LogFile)
	}
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "qirim.log")
}

// DefaultDBPath resolves $XDG_DATA_HOME/qirim/qirim.db, falling back to
// ~/.local/share/qirim/qirim.db.
func DefaultDBPath() (string, error) {
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "qirim.db")
}

func xdgPath(env, fallback, file string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, fallback)
	}
	p := filepath.Join(base, "qirim", file)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
