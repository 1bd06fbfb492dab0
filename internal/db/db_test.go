package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"github.com/sounak286/RAKSHA-SATHI/internal/db"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAppliesMigrations(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Name: "police_analytics"}

	d, err := db.Open(ctx, cfg, filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)
	defer d.Close()

	for _, table := range []string{"users", "cctns_cache", "good_work_entries", "press_releases", "crime_alerts"} {
		var name string
		err := d.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Running again is a no-op.
	require.NoError(t, d.Migrate(ctx))
}

func TestRebind(t *testing.T) {
	pg := &db.DB{Driver: config.DriverPostgres}
	require.Equal(t, "SELECT * FROM users WHERE username = $1 OR email = $2", pg.Rebind("SELECT * FROM users WHERE username = ? OR email = ?"))

	lite := &db.DB{Driver: config.DriverSQLite}
	require.Equal(t, "SELECT ? + ?", lite.Rebind("SELECT ? + ?"))
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	d, err := db.OpenDSN(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer d.Close()

	insert := `INSERT INTO users (username, email, password_hash, full_name, badge_number, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = d.ExecContext(ctx, insert, "asha", "asha@police.test", "x", "Asha Rao", "B-1", time.Now().UTC())
	require.NoError(t, err)

	_, err = d.ExecContext(ctx, insert, "asha", "other@police.test", "x", "Asha Rao", "B-2", time.Now().UTC())
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err))

	require.False(t, db.IsUniqueViolation(errors.New("connection reset")))
	require.False(t, db.IsUniqueViolation(nil))
}
