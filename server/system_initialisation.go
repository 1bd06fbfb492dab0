package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sounak286/RAKSHA-SATHI/users"
)

// InitialiseSystem creates the administrator account on first start.
// Registration only ever creates "user" accounts, so without it no admin
// could exist.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	security := s.config.Security
	if security.AdminUsername == "" {
		log.Warn().Msg("[server InitialiseSystem] no admin username configured, skipping bootstrap")
		return nil
	}

	generatedPassword, err := s.createAdmin(ctx, security.AdminUsername, security.AdminEmail, security.AdminPassword)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap admin: %w", err)
	}

	if generatedPassword != "" {
		log.Info().
			Str("username", security.AdminUsername).
			Str("email", security.AdminEmail).
			Str("password", generatedPassword).
			Msg("Administrator account created, change the password after first login")
	}
	return nil
}

// createAdmin creates the admin user if no user with that username exists.
// It returns the generated password, or "" when nothing was created or the
// password came from configuration.
func (s *Server) createAdmin(ctx context.Context, username, email, defaultPassword string) (generatedPassword string, err error) {
	existingUser, err := s.users.FindByUsernameOrEmail(ctx, username, "")
	if err == nil && existingUser != nil {
		if !existingUser.IsAdmin() {
			log.Warn().Str("username", username).Msg("[server createAdmin] bootstrap user exists without the admin role")
		}
		return "", nil
	}
	if err != nil && !errors.Is(err, users.ErrUserNotFound) {
		return "", errors.Wrap(err, "[server createAdmin] look up admin")
	}

	password := defaultPassword
	if password == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", errors.Wrap(err, "[server createAdmin] failed to generate password")
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", errors.Wrap(err, "[server createAdmin] failed to hash password")
	}

	adminUser := &users.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     "System Administrator",
		BadgeNumber:  "ADMIN",
		Rank:         users.DefaultRank,
		Role:         users.RoleAdmin,
		CreatedAt:    s.nowTime().UTC(),
	}
	if _, err := s.users.Insert(ctx, adminUser); err != nil {
		return "", errors.Wrap(err, "[server createAdmin] failed to create admin")
	}
	return generatedPassword, nil
}
