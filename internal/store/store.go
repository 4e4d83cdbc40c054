package store

import (
	"context"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/qirim/qirim/internal/config"
	"github.com/qirim/qirim/internal/logging"

	// PostgreSQL driver.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Querier is the subset of sqlx shared by a scoped connection and a
// transaction. Repositories only ever talk to the database through it.
type Querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

// Store is the persistence gateway. It owns the connection pool and hands
// out scoped connections for one logical operation at a time.
type Store struct {
	db      *sqlx.DB
	dialect string
	log     *slog.Logger
}

// Open connects to the database for the given driver ("sqlite" or
// "postgres") and verifies the connection. It does not migrate.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	var d string
	switch driver {
	case config.DriverSQLite:
		d = dialect.SQLite
	case config.DriverPostgres:
		d = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if d == dialect.SQLite {
		// Single writer; also keeps per-connection pragmas in effect.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	return &Store{db: db, dialect: d, log: logging.OrDiscard(logger)}, nil
}

// OpenConfig opens the store described by cfg.
func OpenConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Store, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("resolve DSN: %w", err)
	}
	return Open(ctx, cfg.DBDriver, dsn, logger)
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the ent dialect name ("sqlite3" or "postgres").
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Do runs fn on a connection acquired for its duration. The connection is
// released on every exit path.
func (s *Store) Do(ctx context.Context, fn func(q Querier) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// InTx runs fn inside a transaction on a scoped connection. The transaction
// is committed when fn returns nil and rolled back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(q Querier) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", "err", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// sel starts a dialect-aware SELECT.
func (s *Store) sel(columns ...string) *entsql.Selector {
	return entsql.Dialect(s.dialect).Select(columns...)
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
