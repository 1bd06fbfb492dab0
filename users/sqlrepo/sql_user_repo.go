package sqluserrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sounak286/RAKSHA-SATHI/internal/db"
	"github.com/sounak286/RAKSHA-SATHI/users"
)

var _ users.Repo = (*SQLUserRepo)(nil)

const userColumns = `id, username, email, password_hash, full_name, badge_number, rank, district, role, created_at, last_login`

// SQLUserRepo stores users in the users table of a Postgres or SQLite
// database.
type SQLUserRepo struct {
	db *db.DB
}

func New(d *db.DB) *SQLUserRepo {
	return &SQLUserRepo{db: d}
}

func (r *SQLUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*users.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ? OR email = ? ORDER BY id LIMIT 1`)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, username, email))
	if err != nil {
		return nil, errors.Wrap(err, "[FindByUsernameOrEmail]")
	}
	return u, nil
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, errors.Wrap(err, "[GetByID]")
	}
	return u, nil
}

func (r *SQLUserRepo) Insert(ctx context.Context, user *users.User) (int64, error) {
	query := r.db.Rebind(`INSERT INTO users (username, email, password_hash, full_name, badge_number, rank, district, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.BadgeNumber,
		user.Rank, user.District, string(user.Role), user.CreatedAt.UTC(),
	).Scan(&user.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, errors.Wrap(users.ErrUserAlreadyExists, err.Error())
		}
		return 0, errors.Wrap(err, "[Insert]")
	}
	return user.ID, nil
}

func (r *SQLUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := r.db.Rebind(`UPDATE users SET last_login = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		return errors.Wrap(err, "[UpdateLastLogin]")
	}
	return requireRow(res)
}

func (r *SQLUserRepo) UpdateRole(ctx context.Context, id int64, role users.Role) error {
	query := r.db.Rebind(`UPDATE users SET role = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, string(role), id)
	if err != nil {
		return errors.Wrap(err, "[UpdateRole]")
	}
	return requireRow(res)
}

func (r *SQLUserRepo) List(ctx context.Context) ([]*users.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "[List]")
	}
	defer rows.Close()

	var userList []*users.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "[List]")
		}
		userList = append(userList, u)
	}
	return userList, errors.Wrap(rows.Err(), "[List]")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*users.User, error) {
	var (
		u         users.User
		role      string
		lastLogin sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.BadgeNumber,
		&u.Rank, &u.District, &role, &u.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = users.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return users.ErrUserNotFound
	}
	return nil
}
