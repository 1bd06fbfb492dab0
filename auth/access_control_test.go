package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/sounak286/RAKSHA-SATHI/auth"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, registerRequest())

	result, err := f.service.Login(context.Background(), auth.LoginRequest{Username: testUsername, Password: testUserPassword})
	require.NoError(t, err)

	t.Run("valid bearer token", func(t *testing.T) {
		claims, err := f.access.Authenticate("Bearer " + result.Token)
		require.NoError(t, err)
		require.Equal(t, testUsername, claims.Username)

		claims, err = f.access.Authenticate("bearer " + result.Token)
		require.NoError(t, err)
		require.Equal(t, testUsername, claims.Username)
	})

	t.Run("missing token", func(t *testing.T) {
		for _, header := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz", result.Token} {
			_, err := f.access.Authenticate(header)
			require.ErrorIs(t, err, apperrors.ErrAuthentication, header)
			require.Equal(t, "Access token required", apperrors.PublicMessage(err))
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := f.access.Authenticate("Bearer not-a-jwt")
		require.ErrorIs(t, err, apperrors.ErrAuthorization)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
		require.Equal(t, "Invalid or expired token", apperrors.PublicMessage(err))
	})

	t.Run("expired token", func(t *testing.T) {
		f.now = testNow.Add(24*time.Hour + time.Second)
		defer func() { f.now = testNow }()

		_, err := f.access.Authenticate("Bearer " + result.Token)
		require.ErrorIs(t, err, apperrors.ErrAuthorization)
	})
}

func TestRequireAdmin(t *testing.T) {
	f := setupTestFixture(t)
	adminClaims := f.createAdmin(t)
	require.NoError(t, auth.RequireAdmin(adminClaims))

	adminClaims.Role = "user"
	require.ErrorIs(t, auth.RequireAdmin(adminClaims), apperrors.ErrAuthorization)
	require.ErrorIs(t, auth.RequireAdmin(nil), apperrors.ErrAuthorization)
}
