package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived, refresh tokens live
// long enough that a returning browser session survives without a fresh
// password prompt.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims are the claims carried by both access and refresh tokens. The two
// variants share the encoding; they differ only in TTL and in where the
// pipeline is willing to accept them.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the single role tag of the subject, e.g. "USER" or "ADMIN".
	Role string `json:"role,omitempty"`
}

// NewClaims builds minimally-correct claims for a token minted at now.
func NewClaims(subject, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf). The expiry boundary is inclusive: a token
// checked at exactly its expiry instant is already expired.
func (c *Claims) ValidateExpiry(leeway time.Duration, now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}
