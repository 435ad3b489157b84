// Package authn carries the per-request authentication pipeline and the
// path access policy. The pipeline binds a verified identity into the
// request context or leaves the request anonymous; the policy decides what
// anonymous requests may reach. The pipeline itself never rejects a
// request.
package authn

import (
	"context"
	"errors"
	"net/http"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/internal/board/tokenstore"
	"github.com/tabberone/corkboard/pkg/cryptox"
	"github.com/tabberone/corkboard/pkg/httpx"
	"github.com/tabberone/corkboard/pkg/jwtx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

// Cookie names the tokens travel in. Site-wide, HttpOnly; see
// httpx.SetTokenCookie for the attributes.
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
)

// IdentityLoader resolves a username to its stored account. The pipeline
// uses it to attach the current role rather than trusting the role claim
// baked into an old token.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, username string) (domain.User, error)
}

// Pipeline authenticates requests. Per request it runs exactly once,
// before any policy decision and before the business handlers:
//
//	no cookie        -> anonymous
//	valid token      -> identity bound into context
//	invalid token    -> anonymous
//	expired token    -> silent refresh attempt -> identity or anonymous
//
// Every failure path, the token store being down included, degrades to
// anonymous. Turning anonymous into a redirect is the Policy's job.
type Pipeline struct {
	codec  *jwtx.Codec
	tokens tokenstore.Store
	users  IdentityLoader
}

func NewPipeline(codec *jwtx.Codec, tokens tokenstore.Store, users IdentityLoader) *Pipeline {
	return &Pipeline{codec: codec, tokens: tokens, users: users}
}

// Middleware returns the pipeline as a composable middleware.
func (p *Pipeline) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			access := httpx.CookieValue(r, CookieAccessToken)
			if access == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := p.codec.Verify(access)
			switch {
			case err == nil:
				// Valid token, the common path.
				if id, ok := p.resolve(ctx, claims.Subject); ok {
					ctx = httpx.WithIdentity(ctx, id)
				}

			case errors.Is(err, jwtx.ErrExpired):
				if id, ok := p.refresh(ctx, w, r, access); ok {
					ctx = httpx.WithIdentity(ctx, id)
				}

			default:
				// Malformed or badly signed. Anonymous, not an error
				// response; the policy layer decides what anonymous
				// may reach.
				log.Debug("access token rejected", "err", err)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve looks the subject up in the user store so the bound role is the
// account's current one. A deleted account means anonymous, which is what
// makes account deletion stick even while old tokens are outstanding.
func (p *Pipeline) resolve(ctx context.Context, username string) (httpx.Identity, bool) {
	u, err := p.users.LoadIdentity(ctx, username)
	if err != nil {
		slogx.FromContext(ctx).Debug("identity lookup failed", "username", username, "err", err)
		return httpx.Identity{}, false
	}
	return httpx.Identity{Username: u.Username, Role: u.Role}, true
}

// refresh attempts the silent refresh for an expired but well-signed
// access token. On success it sets a fresh access cookie and returns the
// identity; on any failure it returns false and the request stays
// anonymous.
func (p *Pipeline) refresh(ctx context.Context, w http.ResponseWriter, r *http.Request, access string) (httpx.Identity, bool) {
	log := slogx.FromContext(ctx)

	// 1. The store lookup is keyed by the subject the expired access
	// token claims. The signature was already validated; only expiry
	// failed.
	subject, err := p.codec.Subject(access)
	if err != nil {
		log.Debug("refresh: expired access token unreadable", "err", err)
		return httpx.Identity{}, false
	}

	// 2. The refresh cookie must be present and still valid on its own.
	presented := httpx.CookieValue(r, CookieRefreshToken)
	if presented == "" {
		return httpx.Identity{}, false
	}
	refreshClaims, err := p.codec.Verify(presented)
	if err != nil {
		log.Debug("refresh: refresh token rejected", "err", err)
		return httpx.Identity{}, false
	}

	// 3. A refresh token for a different subject than the access token
	// claims is rejected outright, whichever of the two is the forgery.
	if refreshClaims.Subject != subject {
		log.Warn("refresh: subject mismatch between token pair",
			"access_subject", subject, "refresh_subject", refreshClaims.Subject)
		return httpx.Identity{}, false
	}

	// 4. The presented token must exactly match the stored one. A stale
	// token after rotation, a missing record after logout, and a store
	// outage all land here and all mean anonymous.
	stored, err := p.tokens.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, tokenstore.ErrUnavailable) {
			log.Warn("refresh: token store unavailable", "err", err)
		} else {
			log.Debug("refresh: no stored refresh token", "username", subject)
		}
		return httpx.Identity{}, false
	}
	if stored != cryptox.FingerprintToken(presented) {
		log.Warn("refresh: presented token does not match stored value", "username", subject)
		return httpx.Identity{}, false
	}

	// 5. Re-resolve the account and mint a fresh access token with its
	// current role.
	id, ok := p.resolve(ctx, subject)
	if !ok {
		return httpx.Identity{}, false
	}
	newAccess, err := p.codec.Issue(id.Username, id.Role, false)
	if err != nil {
		log.Error("refresh: issuing access token failed", "err", err)
		return httpx.Identity{}, false
	}

	httpx.SetTokenCookie(w, CookieAccessToken, newAccess, p.codec.AccessTTL())
	log.Debug("access token silently refreshed", "username", id.Username)
	return id, true
}
