package users

import (
	"context"
	"time"
)

// Repo stores user records. Implementations return ErrUserNotFound when a
// lookup matches nothing and ErrUserAlreadyExists when an insert collides
// with an existing username or email.
type Repo interface {
	// FindByUsernameOrEmail returns the first user whose username equals
	// username or whose email equals email.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Insert stores user and sets user.ID.
	Insert(ctx context.Context, user *User) (int64, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	List(ctx context.Context) ([]*User, error)
}
