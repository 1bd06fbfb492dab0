package auth

import (
	"strings"

	"github.com/pkg/errors"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/token"
)

const bearerPrefix = "bearer "

// AccessControl turns an Authorization header into verified claims.
type AccessControl struct {
	tokens *token.Codec
}

func NewAccessControl(tokens *token.Codec) *AccessControl {
	return &AccessControl{tokens: tokens}
}

// Authenticate verifies a "Bearer <token>" header value. A missing header
// is an authentication failure; a token that fails verification is an
// authorization failure.
func (ac *AccessControl) Authenticate(authorizationHeader string) (*token.Claims, error) {
	rawToken, ok := bearerToken(authorizationHeader)
	if !ok {
		return nil, AccessTokenRequiredErr
	}

	claims, err := ac.tokens.Verify(rawToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAuthorization, InvalidAccessTokenErr.Message, errors.Wrap(err, "[Authenticate]"))
	}
	return claims, nil
}

// RequireAdmin rejects claims that do not carry the admin role.
func RequireAdmin(claims *token.Claims) error {
	if claims == nil || !claims.IsAdmin() {
		return AdminRequiredErr
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	rawToken := strings.TrimSpace(header[len(bearerPrefix):])
	return rawToken, rawToken != ""
}
