package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/token"
	"github.com/sounak286/RAKSHA-SATHI/users"
)

const defaultTokenTTL = 24 * time.Hour

// AuthenticationService registers users, exchanges credentials for session
// tokens and runs the admin user-management operations.
type AuthenticationService struct {
	users     users.Repo       // Repository for user data
	tokens    *token.Codec     // Issues session tokens
	tokenTTL  time.Duration    // Lifetime of issued tokens
	nowTime   func() time.Time // nowTime function (injectable for testing)
	dummyHash string           // Compared against when the user is unknown
}

// AuthenticationServiceOption defines a function type to modify the AuthenticationService instance.
type AuthenticationServiceOption func(*AuthenticationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthenticationServiceOption {
	return func(as *AuthenticationService) {
		as.nowTime = nowFunc
	}
}

// WithTokenTTL overrides the 24 hour session lifetime.
func WithTokenTTL(ttl time.Duration) AuthenticationServiceOption {
	return func(as *AuthenticationService) {
		if ttl > 0 {
			as.tokenTTL = ttl
		}
	}
}

// NewAuthenticationService initializes a new AuthenticationService with required dependencies.
func NewAuthenticationService(
	userRepo users.Repo,
	tokens *token.Codec,
	options ...AuthenticationServiceOption,
) (*AuthenticationService, error) {
	if userRepo == nil {
		return nil, errors.New("[NewAuthenticationService] Users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAuthenticationService] token codec is required")
	}

	dummyHash, err := users.HashPassword("timing-equaliser")
	if err != nil {
		return nil, errors.Wrap(err, "[NewAuthenticationService] hash dummy password")
	}

	as := &AuthenticationService{
		users:     userRepo,
		tokens:    tokens,
		tokenTTL:  defaultTokenTTL,
		nowTime:   time.Now,
		dummyHash: dummyHash,
	}
	for _, opt := range options {
		opt(as)
	}
	return as, nil
}

// Register creates a user with the "user" role and returns its id.
func (as *AuthenticationService) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	if _, err := as.users.FindByUsernameOrEmail(ctx, req.Username, req.Email); err == nil {
		return 0, UserAlreadyExistsErr
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return 0, apperrors.Internal(errors.Wrap(err, "[Register] lookup"))
	}

	passwordHash, err := users.HashPassword(req.Password)
	if err != nil {
		return 0, apperrors.Internal(errors.Wrap(err, "[Register] hash password"))
	}

	rank := req.Rank
	if rank == "" {
		rank = users.DefaultRank
	}

	user := &users.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		BadgeNumber:  req.BadgeNumber,
		Rank:         rank,
		District:     req.District,
		Role:         users.RoleUser,
		CreatedAt:    as.nowTime().UTC(),
	}

	id, err := as.users.Insert(ctx, user)
	if errors.Is(err, users.ErrUserAlreadyExists) {
		// Lost a race with a concurrent registration.
		return 0, apperrors.Wrap(apperrors.ErrConflict, UserAlreadyExistsErr.Message, err)
	}
	if err != nil {
		return 0, apperrors.Internal(errors.Wrap(err, "[Register] insert"))
	}
	return id, nil
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords produce the same error.
func (as *AuthenticationService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := as.users.FindByUsernameOrEmail(ctx, req.Username, req.Username)
	if err != nil {
		if !errors.Is(err, users.ErrUserNotFound) {
			return nil, apperrors.Internal(errors.Wrap(err, "[Login] lookup"))
		}
		users.CheckPasswordHash(req.Password, as.dummyHash)
		return nil, InvalidCredentialsErr
	}

	if !users.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, InvalidCredentialsErr
	}

	now := as.nowTime().UTC()
	if err := as.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperrors.Internal(errors.Wrap(err, "[Login] update last login"))
	}
	user.LastLogin = &now

	signed, expiresAt, err := as.tokens.Issue(token.ClaimsFor(user), as.tokenTTL)
	if err != nil {
		return nil, apperrors.Internal(errors.Wrap(err, "[Login] issue token"))
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user.Public(),
	}, nil
}

// Profile returns the public view of the user behind a verified token.
func (as *AuthenticationService) Profile(ctx context.Context, userID int64) (*users.PublicUser, error) {
	user, err := as.users.GetByID(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, UserNotFoundErr
	}
	if err != nil {
		return nil, apperrors.Internal(errors.Wrap(err, "[Profile]"))
	}
	public := user.Public()
	return &public, nil
}

// ListUsers returns every user. Admin only.
func (as *AuthenticationService) ListUsers(ctx context.Context, claims *token.Claims) ([]users.PublicUser, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}

	list, err := as.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(errors.Wrap(err, "[ListUsers]"))
	}

	publicUsers := make([]users.PublicUser, 0, len(list))
	for _, u := range list {
		publicUsers = append(publicUsers, u.Public())
	}
	return publicUsers, nil
}

// UpdateRole changes the role of userID. Admin only.
func (as *AuthenticationService) UpdateRole(ctx context.Context, claims *token.Claims, userID int64, role users.Role) error {
	if err := RequireAdmin(claims); err != nil {
		return err
	}
	if !role.Valid() {
		return InvalidRoleErr
	}

	err := as.users.UpdateRole(ctx, userID, role)
	if errors.Is(err, users.ErrUserNotFound) {
		return UserNotFoundErr
	}
	if err != nil {
		return apperrors.Internal(errors.Wrap(err, "[UpdateRole]"))
	}
	return nil
}
