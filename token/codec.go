package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/users"
)

// Claims is the verified content of a session token. It is handed to
// protected handlers for the lifetime of a single request.
type Claims struct {
	UserID   int64      `json:"userId"`
	Username string     `json:"username"`
	Role     users.Role `json:"role"`
	District string     `json:"district"`
	jwt.RegisteredClaims
}

// ClaimsFor builds the claims embedded in a token issued to u.
func ClaimsFor(u *users.User) Claims {
	return Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		District: u.District,
	}
}

func (c *Claims) IsAdmin() bool {
	return c.Role == users.RoleAdmin
}

// Codec issues and verifies stateless session tokens.
type Codec struct {
	signer  Signer
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

// WithNowFunc sets the clock used for iat, exp and expiry checks.
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, options ...CodecOption) (*Codec, error) {
	if signer == nil {
		return nil, errors.New("[NewCodec] signer is required")
	}
	c := &Codec{
		signer:  signer,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Issue signs claims into a token that expires ttl after now. Registered
// claims already set on claims are replaced. The returned expiry is the one
// encoded in the token, truncated to whole seconds.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, errors.Errorf("[Issue] invalid token ttl %s", ttl)
	}
	now := c.nowFunc()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.New().String(),
	}

	signed, err := c.signer.Sign(&claims)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Issue]")
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks the signature, algorithm and expiry of rawToken and returns
// its claims. Every failure matches apperrors.ErrInvalidToken.
func (c *Codec) Verify(rawToken string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signer.Method().Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	tok, err := parser.ParseWithClaims(rawToken, claims, c.signer.VerificationKey)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}
	if !tok.Valid || claims.UserID == 0 {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "missing user id")
	}
	return claims, nil
}
