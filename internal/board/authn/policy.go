package authn

import (
	"net/http"
	"strings"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/pkg/httpx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

// Rule maps a path pattern to whether anonymous requests may reach it.
// Patterns are exact paths, except a trailing "/*" which matches the whole
// subtree ("/static/*" matches "/static/app.css").
type Rule struct {
	Pattern string
	Public  bool
}

// Policy is the declarative access table. Evaluation is central and first
// match wins; a path no rule matches requires authentication, so forgetting
// to list a new route fails safe.
type Policy struct {
	rules     []Rule
	loginPath string
}

func NewPolicy(loginPath string, rules ...Rule) *Policy {
	return &Policy{rules: rules, loginPath: loginPath}
}

// Allows reports whether an anonymous request may reach path.
func (p *Policy) Allows(path string) bool {
	for _, rule := range p.rules {
		if matches(rule.Pattern, path) {
			return rule.Public
		}
	}
	return false
}

func matches(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

// Middleware enforces the policy. Unauthenticated requests to protected
// paths get a 303 to the login page rather than a bare 401, since the
// primary client is a browser.
func (p *Policy) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := httpx.IdentityFromContext(r.Context()); ok || p.Allows(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(r.Context()).Debug("anonymous request denied", "path", r.URL.Path)
			httpx.SeeOther(w, r, p.loginPath)
		})
	}
}

// RequireRole guards a handler behind a role. It runs after the pipeline
// and policy, so an unauthenticated request here is a routing mistake and
// still only yields a 403.
func RequireRole(role string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := httpx.IdentityFromContext(r.Context())
			if !ok || id.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole for the admin role.
func RequireAdmin() httpx.Middleware {
	return RequireRole(domain.RoleAdmin)
}
