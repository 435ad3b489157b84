package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	c, err := NewCodec(Config{
		Key:    []byte("test-signing-key-0123456789abcdef"),
		Issuer: "corkboard-test",
	})
	require.NoError(t, err)
	return c
}

func TestNewCodec(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty key", func(t *testing.T) {
		_, err := NewCodec(Config{})
		require.Error(t, err)
	})

	t.Run("defaults TTLs", func(t *testing.T) {
		c, err := NewCodec(Config{Key: []byte("k")})
		require.NoError(t, err)
		require.Equal(t, DefaultAccessTTL, c.AccessTTL())
		require.Equal(t, DefaultRefreshTTL, c.RefreshTTL())
	})

	t.Run("rejects negative leeway", func(t *testing.T) {
		_, err := NewCodec(Config{Key: []byte("k"), Leeway: -time.Second})
		require.Error(t, err)
	})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	for _, tc := range []struct {
		subject string
		role    string
	}{
		{"alice", "USER"},
		{"bob", "ADMIN"},
		{"user-with-dashes", ""},
	} {
		token, err := c.Issue(tc.subject, tc.role, false)
		require.NoError(t, err)

		claims, err := c.Verify(token)
		require.NoError(t, err)
		require.Equal(t, tc.subject, claims.Subject)
		require.Equal(t, tc.role, claims.Role)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	token, err := c.Issue("alice", "USER", false)
	require.NoError(t, err)

	first, err := c.Verify(token)
	require.NoError(t, err)
	second, err := c.Verify(token)
	require.NoError(t, err)

	require.Equal(t, first.Subject, second.Subject)
	require.Equal(t, first.Role, second.Role)
}

func TestRefreshFlagSelectsTTL(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	access, err := c.Issue("alice", "USER", false)
	require.NoError(t, err)
	refresh, err := c.Issue("alice", "USER", true)
	require.NoError(t, err)

	ac, err := c.Verify(access)
	require.NoError(t, err)
	rc, err := c.Verify(refresh)
	require.NoError(t, err)

	// The refresh window is strictly longer than the access window.
	require.True(t, rc.ExpiresAt.After(ac.ExpiresAt.Time))
}

// signAt mints a token with an arbitrary expiry so the boundary can be
// pinned without sleeping.
func signAt(t *testing.T, c *Codec, subject, role string, exp time.Time) string {
	t.Helper()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "corkboard-test",
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	require.NoError(t, err)
	return token
}

func TestExpiryBoundary(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	t.Run("expired one second ago always fails", func(t *testing.T) {
		token := signAt(t, c, "alice", "USER", time.Now().Add(-time.Second))
		_, err := c.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("expiry an hour out always passes", func(t *testing.T) {
		token := signAt(t, c, "alice", "USER", time.Now().Add(time.Hour))
		_, err := c.Verify(token)
		require.NoError(t, err)
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		now := time.Now().UTC()
		claims := NewClaims("alice", "USER", "", 0, now)
		require.ErrorIs(t, claims.ValidateExpiry(0, now), ErrExpired)
	})
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	for name, token := range map[string]string{
		"empty":        "",
		"not a jwt":    "definitely-not-a-token",
		"two segments": "abc.def",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(token)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	other, err := NewCodec(Config{Key: []byte("a-completely-different-key")})
	require.NoError(t, err)

	token, err := other.Issue("mallory", "ADMIN", false)
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	// alg=none tokens must never validate, signature segment or not.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, NewClaims("alice", "ADMIN", "", time.Hour, time.Now())).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Verify(unsigned)
	require.Error(t, err)
}

func TestVerifyEnforcesIssuer(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	stranger, err := NewCodec(Config{
		Key:    []byte("test-signing-key-0123456789abcdef"),
		Issuer: "someone-else",
	})
	require.NoError(t, err)

	token, err := stranger.Issue("alice", "USER", false)
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestSubjectAndRoleFromExpiredToken(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	token := signAt(t, c, "alice", "USER", time.Now().Add(-time.Minute))

	_, err := c.Verify(token)
	require.ErrorIs(t, err, ErrExpired)

	// Extraction still works on the expired token as long as the
	// signature checks out.
	sub, err := c.Subject(token)
	require.NoError(t, err)
	require.Equal(t, "alice", sub)

	role, err := c.Role(token)
	require.NoError(t, err)
	require.Equal(t, "USER", role)
}

func TestSubjectRejectsTamperedToken(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	token, err := c.Issue("alice", "USER", false)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = c.Subject(tampered)
	require.Error(t, err)
}
