package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
)

// TokenManager issues and verifies stateless bearer tokens. Tokens are
// HS256-signed JWTs carrying the account email as subject; nothing is
// stored server-side, expiry is the only lifecycle.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed token for the given account email.
func (m *TokenManager) Issue(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	return token.SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry and returns the token
// subject. Expired tokens are distinguished from malformed or forged
// ones so callers can log them differently, though both surface to
// clients as the same authentication failure.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.TokenExpired().WithCause(err)
		}
		return "", apperrors.InvalidToken("Invalid token").WithCause(err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", apperrors.InvalidToken("Token has no subject")
	}

	return subject, nil
}
