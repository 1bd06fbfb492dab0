package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"github.com/sounak286/RAKSHA-SATHI/internal/db/migrations"
)

const pgUniqueViolation = "23505"

// DB is a *sql.DB that remembers which driver it was opened with so that
// repositories can write one query and have placeholders rebound.
type DB struct {
	*sql.DB
	Driver string
}

// Open connects to the configured database, applies pending migrations and
// returns the handle. SQLite files are created under dataFolder.
func Open(ctx context.Context, cfg config.DatabaseConfig, dataFolder string) (*DB, error) {
	dsn := cfg.DSN(dataFolder)
	if cfg.Driver == config.DriverSQLite && cfg.URL == "" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, pkgerrors.Wrap(err, "[db Open] create data folder")
		}
	}
	return OpenDSN(ctx, cfg.Driver, dsn)
}

// OpenDSN opens driver/dsn directly. Tests use it with a SQLite file in a
// temporary folder.
func OpenDSN(ctx context.Context, driver, dsn string) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "[db Open] open %s", driver)
	}
	d := &DB{DB: conn, Driver: driver}

	if driver == config.DriverSQLite {
		// A single writer avoids SQLITE_BUSY under concurrent cache writes.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, pkgerrors.Wrap(err, "[db Open] ping")
	}
	if driver == config.DriverSQLite {
		for _, pragma := range []string{`PRAGMA busy_timeout=5000`, `PRAGMA foreign_keys=ON`} {
			if _, err := conn.ExecContext(ctx, pragma); err != nil {
				_ = conn.Close()
				return nil, pkgerrors.Wrap(err, "[db Open] "+pragma)
			}
		}
	}

	if err := d.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return d, nil
}

// Migrate applies the embedded goose migrations for the driver's dialect.
func (d *DB) Migrate(ctx context.Context) error {
	dialect, dir := "sqlite3", "sqlite3"
	if d.Driver == config.DriverPostgres {
		dialect, dir = "postgres", "postgres"
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return pkgerrors.Wrap(err, "[db Migrate] set dialect")
	}
	if err := goose.UpContext(ctx, d.DB, dir); err != nil {
		return pkgerrors.Wrap(err, "[db Migrate] up")
	}
	return nil
}

// Rebind rewrites ? placeholders into $n placeholders for Postgres. Queries
// for SQLite are returned unchanged.
func (d *DB) Rebind(query string) string {
	if d.Driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
