package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer produces signed session tokens and supplies the key that verifies them.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)

	// VerificationKey is a jwt.Keyfunc. It must reject tokens signed with
	// any method other than Method().
	VerificationKey(t *jwt.Token) (any, error)

	Method() jwt.SigningMethod
}

// HMACSigner signs with HS256 using the shared JWT secret from configuration.
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (h *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(h.Method(), claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "[HMACSigner Sign]")
	}
	return signed, nil
}

func (h *HMACSigner) VerificationKey(t *jwt.Token) (any, error) {
	if t.Method != h.Method() {
		return nil, errors.Errorf("[HMACSigner VerificationKey] unexpected signing method %v", t.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACSigner) Method() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}
