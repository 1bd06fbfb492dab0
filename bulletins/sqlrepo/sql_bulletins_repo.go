package sqlbulletinsrepo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sounak286/RAKSHA-SATHI/bulletins"
	"github.com/sounak286/RAKSHA-SATHI/internal/db"
)

var _ bulletins.Repo = (*SQLBulletinsRepo)(nil)

type SQLBulletinsRepo struct {
	db *db.DB
}

func New(d *db.DB) *SQLBulletinsRepo {
	return &SQLBulletinsRepo{db: d}
}

func (r *SQLBulletinsRepo) ListPressReleases(ctx context.Context, limit int) ([]bulletins.PressRelease, error) {
	query := r.db.Rebind(`SELECT id, title, content, category, date FROM press_releases
		ORDER BY date DESC, id DESC
		LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[ListPressReleases]")
	}
	defer rows.Close()

	releases := make([]bulletins.PressRelease, 0)
	for rows.Next() {
		var p bulletins.PressRelease
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.Date); err != nil {
			return nil, errors.Wrap(err, "[ListPressReleases] scan")
		}
		releases = append(releases, p)
	}
	return releases, errors.Wrap(rows.Err(), "[ListPressReleases]")
}

func (r *SQLBulletinsRepo) InsertPressRelease(ctx context.Context, release *bulletins.PressRelease) (int64, error) {
	query := r.db.Rebind(`INSERT INTO press_releases (title, content, category, date)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	err := r.db.QueryRowContext(ctx, query, release.Title, release.Content, release.Category, release.Date.UTC()).Scan(&release.ID)
	if err != nil {
		return 0, errors.Wrap(err, "[InsertPressRelease]")
	}
	return release.ID, nil
}

func (r *SQLBulletinsRepo) ListActiveCrimeAlerts(ctx context.Context, limit int) ([]bulletins.CrimeAlert, error) {
	query := r.db.Rebind(`SELECT id, title, description, severity, district, is_active, created_at FROM crime_alerts
		WHERE is_active = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, query, true, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[ListActiveCrimeAlerts]")
	}
	defer rows.Close()

	alerts := make([]bulletins.CrimeAlert, 0)
	for rows.Next() {
		var a bulletins.CrimeAlert
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Severity, &a.District, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "[ListActiveCrimeAlerts] scan")
		}
		alerts = append(alerts, a)
	}
	return alerts, errors.Wrap(rows.Err(), "[ListActiveCrimeAlerts]")
}

func (r *SQLBulletinsRepo) InsertCrimeAlert(ctx context.Context, alert *bulletins.CrimeAlert) (int64, error) {
	query := r.db.Rebind(`INSERT INTO crime_alerts (title, description, severity, district, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.db.QueryRowContext(ctx, query,
		alert.Title, alert.Description, alert.Severity, alert.District, alert.IsActive, alert.CreatedAt.UTC(),
	).Scan(&alert.ID)
	if err != nil {
		return 0, errors.Wrap(err, "[InsertCrimeAlert]")
	}
	return alert.ID, nil
}
