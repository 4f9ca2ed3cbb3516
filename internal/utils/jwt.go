package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is the single failure result of ParseSessionToken. A
// malformed token, a bad signature and an expired token are deliberately
// indistinguishable to the caller so the verifier cannot be used as an
// oracle.
var ErrInvalidToken = errors.New("invalid session token")

// sessionClaims binds a user identity to the registered expiry/issued-at
// claims. The subject carries the user ID.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
}

// NewSessionToken builds and signs an HS256 JWT asserting the given user's
// identity for the given lifetime. The secret must be non-empty; that is a
// startup invariant enforced by config.Load, not a per-request condition.
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies signature and expiry and returns the user ID
// the token was issued for. Any failure yields ErrInvalidToken.
func ParseSessionToken(secret, token string) (uint64, error) {
	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
