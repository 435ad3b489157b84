package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tabberone/corkboard/internal/board/authn"
	"github.com/tabberone/corkboard/internal/board/service"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/pkg/httpx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

// DefaultPolicy is the access table for the served routes. Everything not
// listed here requires authentication.
func DefaultPolicy() *authn.Policy {
	return authn.NewPolicy("/auth/login",
		authn.Rule{Pattern: "/", Public: true},
		authn.Rule{Pattern: "/healthz", Public: true},
		authn.Rule{Pattern: "/readyz", Public: true},
		authn.Rule{Pattern: "/auth/login", Public: true},
		authn.Rule{Pattern: "/auth/register", Public: true},
	)
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	PostService *service.PostService
	UserService *service.UserService
}

func NewRouter(
	logger *slog.Logger,
	st store.Store,
	pipeline *authn.Pipeline,
	policy *authn.Policy,
	buildVersion string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Request logging runs outermost, then the authentication pipeline,
	// then the access policy. By the time a handler runs, identity is
	// bound and the policy has already let the request through.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		pipeline.Middleware(),
		policy.Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerAuth()
	r.registerPosts()
	r.registerAdmin()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	// {$} keeps the index from swallowing every unmatched path.
	r.Mux.Handle("GET /{$}", IndexHandler())
	r.Mux.Handle("GET /healthz", HealthzHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterGet),
			httpx.RateLimit(httpx.LenientLimit, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterPost),
			httpx.RateLimit(httpx.StrictLimit, httpx.IPKeyExtractor),
		),
	)

	r.Mux.Handle("GET /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLoginGet),
			httpx.RateLimit(httpx.LenientLimit, httpx.IPKeyExtractor),
		),
	)

	// Login attempts are limited by IP plus the attempted username so a
	// single host cannot brute force one account from many addresses'
	// worth of budget.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLoginPost),
			httpx.RateLimit(httpx.StrictLimit, httpx.IPAndFormFieldKey("username")),
		),
	)

	r.Mux.Handle("POST /auth/logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{PostService: r.PostService}

	r.Mux.Handle("GET /posts", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /posts/new", http.HandlerFunc(h.HandleNewForm))
	r.Mux.Handle("POST /posts/new", http.HandlerFunc(h.HandleCreate))
	r.Mux.Handle("GET /posts/{id}", http.HandlerFunc(h.HandleShow))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{UserService: r.UserService}

	r.Mux.Handle("GET /admin",
		httpx.Chain(http.HandlerFunc(h.HandleListUsers),
			authn.RequireAdmin(),
		),
	)
	r.Mux.Handle("POST /admin/delete/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDeleteUser),
			authn.RequireAdmin(),
		),
	)
}
