package users

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Role is the access level carried in session tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	DefaultRank = "Officer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int64      `json:"id"`                  // Unique identifier, assigned by the store
	Username     string     `json:"username"`            // Unique username
	Email        string     `json:"email"`               // Unique email address
	PasswordHash string     `json:"-"`                   // bcrypt hash of the password - never serialize
	FullName     string     `json:"fullName"`            // Officer's full name
	BadgeNumber  string     `json:"badgeNumber"`         // Badge number
	Rank         string     `json:"rank"`                // Rank, "Officer" when not supplied
	District     string     `json:"district"`            // District the officer belongs to
	Role         Role       `json:"role"`                // user or admin
	CreatedAt    time.Time  `json:"createdAt"`           // Date and time when the user registered
	LastLogin    *time.Time `json:"lastLogin,omitempty"` // Last successful login, nil if never
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	BadgeNumber string     `json:"badgeNumber"`
	Rank        string     `json:"rank"`
	District    string     `json:"district"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		BadgeNumber: u.BadgeNumber,
		Rank:        u.Rank,
		District:    u.District,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
