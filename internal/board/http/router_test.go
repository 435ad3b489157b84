package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/tabberone/corkboard/internal/board/authn"
	"github.com/tabberone/corkboard/internal/board/domain"
	boardhttp "github.com/tabberone/corkboard/internal/board/http"
	"github.com/tabberone/corkboard/internal/board/service"
	"github.com/tabberone/corkboard/internal/board/store/drivers/sqlite"
	"github.com/tabberone/corkboard/internal/board/tokenstore"
	"github.com/tabberone/corkboard/pkg/cryptox"
	"github.com/tabberone/corkboard/pkg/idx"
	"github.com/tabberone/corkboard/pkg/jwtx"
	"github.com/tabberone/corkboard/pkg/slogx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "corkboard-test"

var testKey = []byte("0123456789abcdef0123456789abcdef")

type env struct {
	router *boardhttp.Router
	codec  *jwtx.Codec
	auth   *service.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(jwtx.Config{Key: testKey, Issuer: testIssuer})
	require.NoError(t, err)

	tokens := tokenstore.NewMemoryStore()
	auth := &service.AuthService{Codec: codec, Store: st, Tokens: tokens}

	logger := slogx.New(slogx.Config{Level: "error"})
	pipeline := authn.NewPipeline(codec, tokens, auth)

	r := boardhttp.NewRouter(logger, st, pipeline, boardhttp.DefaultPolicy(), "test")
	r.AuthService = auth
	r.PostService = &service.PostService{Store: st}
	r.UserService = &service.UserService{Store: st, Tokens: tokens}
	r.ApplyRoutes()

	return &env{router: r, codec: codec, auth: auth}
}

// do runs one request through the full middleware chain without following
// redirects, so tests can assert on them.
func (e *env) do(method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) register(t *testing.T, username, password string) {
	t.Helper()
	rec := e.do(http.MethodPost, "/auth/register",
		url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

// login posts credentials and returns the issued token cookies.
func (e *env) login(t *testing.T, username, password string) (access, refresh *http.Cookie) {
	t.Helper()
	rec := e.do(http.MethodPost, "/auth/login",
		url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case authn.CookieAccessToken:
			access = c
		case authn.CookieRefreshToken:
			refresh = c
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.True(t, access.HttpOnly)
	require.True(t, refresh.HttpOnly)
	require.Equal(t, "/", access.Path)
	return access, refresh
}

// expiredAccessCookie mints an access cookie that expired an hour ago,
// signed with the server's real key.
func expiredAccessCookie(t *testing.T, subject, role string) *http.Cookie {
	t.Helper()
	claims := jwtx.NewClaims(subject, role, testIssuer, time.Hour, time.Now().Add(-2*time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	return &http.Cookie{Name: authn.CookieAccessToken, Value: token}
}

func TestPublicPathsNeedNoCookies(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/", "/auth/login", "/auth/register", "/healthz"} {
		rec := e.do(http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, "path %q", path)
	}
}

func TestProtectedPathRedirectsAnonymousToLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/posts", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRegisterLoginAndPost(t *testing.T) {
	e := newEnv(t)

	e.register(t, "alice", "pw1")
	access, _ := e.login(t, "alice", "pw1")

	// Create a post as alice.
	rec := e.do(http.MethodPost, "/posts/new",
		url.Values{"title": {"hello"}, "content": {"first"}}, []*http.Cookie{access})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// The list shows it, with authorship from the session.
	rec = e.do(http.MethodGet, "/posts", nil, []*http.Cookie{access})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "hello")
	require.Contains(t, rec.Body.String(), "alice")
}

func TestLoginFailureIsGeneric(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "pw1")

	wrongPassword := e.do(http.MethodPost, "/auth/login",
		url.Values{"username": {"alice"}, "password": {"bad"}}, nil)
	unknownUser := e.do(http.MethodPost, "/auth/login",
		url.Values{"username": {"nobody"}, "password": {"bad"}}, nil)

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Contains(t, wrongPassword.Body.String(), "invalid username or password")
	require.Contains(t, unknownUser.Body.String(), "invalid username or password")
	require.Empty(t, wrongPassword.Result().Cookies())
}

func TestSilentRefreshAndRotationReplay(t *testing.T) {
	e := newEnv(t)

	// 1. Register and log in; keep the first session's refresh cookie.
	e.register(t, "alice", "pw1")
	_, r1 := e.login(t, "alice", "pw1")

	// 2. A protected request with an artificially expired access cookie
	// and the matching refresh cookie succeeds and returns a fresh
	// access cookie.
	expired := expiredAccessCookie(t, "alice", domain.RoleUser)
	rec := e.do(http.MethodGet, "/posts", nil, []*http.Cookie{expired, r1})
	require.Equal(t, http.StatusOK, rec.Code)

	var renewed string
	for _, c := range rec.Result().Cookies() {
		if c.Name == authn.CookieAccessToken {
			renewed = c.Value
		}
	}
	require.NotEmpty(t, renewed)
	claims, err := e.codec.Verify(renewed)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)

	// 3. A second login rotates the stored refresh token.
	e.login(t, "alice", "pw1")

	// 4. Replaying the pre-rotation refresh cookie is rejected: the
	// request proceeds anonymous and the protected path redirects.
	rec = e.do(http.MethodGet, "/posts", nil, []*http.Cookie{expired, r1})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
	require.Empty(t, rec.Result().Cookies())
}

func TestLogoutKillsSilentRefresh(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "pw1")
	access, refresh := e.login(t, "alice", "pw1")

	rec := e.do(http.MethodPost, "/auth/logout", nil, []*http.Cookie{access})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Both cookies are expired on the response.
	for _, c := range rec.Result().Cookies() {
		require.Equal(t, -1, c.MaxAge, "cookie %q should be cleared", c.Name)
	}

	// The refresh token no longer works even though it is unexpired.
	expired := expiredAccessCookie(t, "alice", domain.RoleUser)
	rec = e.do(http.MethodGet, "/posts", nil, []*http.Cookie{expired, refresh})
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAdminPagesRequireAdminRole(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "pw1")
	access, _ := e.login(t, "alice", "pw1")

	rec := e.do(http.MethodGet, "/admin", nil, []*http.Cookie{access})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCanListAndDeleteUsers(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	e.register(t, "alice", "pw1")
	alice, err := e.auth.LoadIdentity(ctx, "alice")
	require.NoError(t, err)

	// Seed an admin account directly in the store.
	hash, err := cryptox.HashPassword("root")
	require.NoError(t, err)
	require.NoError(t, e.auth.Store.Users().CreateUser(ctx, domain.User{
		ID:           idx.New().String(),
		Username:     "boss",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}))

	access, _ := e.login(t, "boss", "root")

	// The admin page lists both accounts.
	rec := e.do(http.MethodGet, "/admin", nil, []*http.Cookie{access})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice")
	require.Contains(t, rec.Body.String(), "boss")

	// Deleting alice removes the account and redirects back.
	rec = e.do(http.MethodPost, "/admin/delete/"+alice.ID, nil, []*http.Cookie{access})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin", rec.Header().Get("Location"))

	rec = e.do(http.MethodGet, "/admin", nil, []*http.Cookie{access})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "alice")
}

func TestUnknownPathIsProtectedByDefault(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/does/not/exist", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
}
