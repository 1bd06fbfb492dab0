package sqlcacherepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sounak286/RAKSHA-SATHI/cache"
	"github.com/sounak286/RAKSHA-SATHI/internal/db"
)

var _ cache.Repo = (*SQLCacheRepo)(nil)

// SQLCacheRepo keeps upstream responses in the cctns_cache table.
type SQLCacheRepo struct {
	db *db.DB
}

func New(d *db.DB) *SQLCacheRepo {
	return &SQLCacheRepo{db: d}
}

func (r *SQLCacheRepo) Write(ctx context.Context, key string, payload []byte, at time.Time) error {
	query := r.db.Rebind(`INSERT INTO cctns_cache (endpoint, data, cached_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, key, string(payload), at.UTC()); err != nil {
		return errors.Wrapf(err, "[Write] %s", key)
	}
	return nil
}

func (r *SQLCacheRepo) Latest(ctx context.Context, key string) (*cache.Entry, error) {
	query := r.db.Rebind(`SELECT data, cached_at FROM cctns_cache
		WHERE endpoint = ?
		ORDER BY cached_at DESC, id DESC
		LIMIT 1`)

	var (
		data     string
		cachedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, key).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrEntryNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Latest] %s", key)
	}
	return &cache.Entry{Key: key, Payload: []byte(data), CachedAt: cachedAt}, nil
}
