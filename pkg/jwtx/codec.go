package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Config captures what a Codec needs up front. Key is the only required
// field; TTLs fall back to the package defaults.
type Config struct {
	// Key is the symmetric HS256 signing key, shared by issue and verify.
	// Compromise of this key invalidates every outstanding token.
	Key []byte

	// Issuer the tokens carry and verification enforces. Empty means
	// "don't care".
	Issuer string

	// AccessTTL / RefreshTTL are the expiry windows per token variant.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration
}

// Codec signs and verifies the service's identity tokens. Both operations
// are pure and CPU-only, so a single Codec is safe for concurrent use.
type Codec struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
}

// NewCodec validates the config and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("jwtx: empty signing key")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("jwtx: negative leeway")
	}

	return &Codec{
		key:        cfg.Key,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		leeway:     cfg.Leeway,
	}, nil
}

// AccessTTL reports the configured access token lifetime. Handlers use it
// to align cookie Max-Age with token expiry.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Issue mints a signed token for subject. The refresh flag selects the
// expiry window; the encoding is otherwise identical.
func (c *Codec) Issue(subject, role string, refresh bool) (string, error) {
	ttl := c.accessTTL
	if refresh {
		ttl = c.refreshTTL
	}

	claims := NewClaims(subject, role, c.issuer, ttl, time.Now().UTC())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.key)
}

// Verify checks signature, issuer and expiry, and returns the claims.
// Failures are the package sentinels: ErrExpired for a well-signed token
// past its window, ErrMalformed / ErrInvalidSig / ErrAlgMismatch otherwise.
func (c *Codec) Verify(token string) (Claims, error) {
	claims, err := c.parse(token)
	if err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(c.leeway, time.Now().UTC()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// Subject returns the subject of a token whose signature checks out,
// without enforcing expiry. The refresh path needs this to read the claimed
// subject out of an already-expired access token.
func (c *Codec) Subject(token string) (string, error) {
	claims, err := c.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Role is the counterpart of Subject for the role claim.
func (c *Codec) Role(token string) (string, error) {
	claims, err := c.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// parse verifies the signature and decodes claims. Expiry is validated
// separately so callers can tell "expired" apart from "garbage".
func (c *Codec) parse(token string) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return c.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlgMismatch):
			return Claims{}, ErrAlgMismatch
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}

	return claims, nil
}
