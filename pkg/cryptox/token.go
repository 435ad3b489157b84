package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// KeySize256 provides 256 bits of entropy (43 chars base64url).
const KeySize256 = 32

// GenerateKey creates a cryptographically secure random key of the given
// byte length, base64url encoded. Used to mint the token signing key when
// none is on disk yet.
func GenerateKey(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: key size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random key: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// base64url encoded. The token store keeps fingerprints rather than raw
// long-lived credentials; equality of fingerprints stands in for equality
// of tokens.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
