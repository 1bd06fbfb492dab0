package auth

import (
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
)

var (
	MissingFieldsErr       = apperrors.New(apperrors.ErrValidation, "All fields are required")
	MissingCredentialsErr  = apperrors.New(apperrors.ErrValidation, "Username and password required")
	PasswordTooLongErr     = apperrors.New(apperrors.ErrValidation, "Password must be at most 72 bytes")
	InvalidRoleErr         = apperrors.New(apperrors.ErrValidation, "Invalid role")
	UserAlreadyExistsErr   = apperrors.New(apperrors.ErrConflict, "User already exists")
	InvalidCredentialsErr  = apperrors.New(apperrors.ErrAuthentication, "Invalid credentials")
	AccessTokenRequiredErr = apperrors.New(apperrors.ErrAuthentication, "Access token required")
	InvalidAccessTokenErr  = apperrors.New(apperrors.ErrAuthorization, "Invalid or expired token")
	AdminRequiredErr       = apperrors.New(apperrors.ErrAuthorization, "Admin access required")
	UserNotFoundErr        = apperrors.New(apperrors.ErrNotFound, "User not found")
)
