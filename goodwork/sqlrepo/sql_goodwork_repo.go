package sqlgoodworkrepo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sounak286/RAKSHA-SATHI/goodwork"
	"github.com/sounak286/RAKSHA-SATHI/internal/db"
)

var _ goodwork.Repo = (*SQLGoodWorkRepo)(nil)

type SQLGoodWorkRepo struct {
	db *db.DB
}

func New(d *db.DB) *SQLGoodWorkRepo {
	return &SQLGoodWorkRepo{db: d}
}

func (r *SQLGoodWorkRepo) Insert(ctx context.Context, entry *goodwork.Entry) (int64, error) {
	query := r.db.Rebind(`INSERT INTO good_work_entries
		(officer_name, badge_number, district, achievement, category, date, description, submitted_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	s := entry.Submission
	err := r.db.QueryRowContext(ctx, query,
		s.OfficerName, s.BadgeNumber, s.District, s.Achievement, s.Category, s.Date, s.Description,
		entry.SubmittedBy, entry.CreatedAt.UTC(),
	).Scan(&entry.ID)
	if err != nil {
		return 0, errors.Wrap(err, "[Insert] good work entry")
	}
	return entry.ID, nil
}
