package auth

import (
	"time"

	"github.com/sounak286/RAKSHA-SATHI/users"
)

// RegisterRequest is the body of a self-service registration.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	BadgeNumber string `json:"badgeNumber"`
	Rank        string `json:"rank"`     // Optional, defaults to users.DefaultRank
	District    string `json:"district"` // Optional
}

// LoginRequest accepts either a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      users.PublicUser `json:"user"`
}

type UpdateRoleRequest struct {
	Role users.Role `json:"role"`
}
