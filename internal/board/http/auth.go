package http

import (
	"errors"
	"net/http"

	"github.com/tabberone/corkboard/internal/board/authn"
	"github.com/tabberone/corkboard/internal/board/service"
	"github.com/tabberone/corkboard/pkg/httpx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

// genericLoginError is shown for every credential failure so the page
// never reveals whether the username exists.
const genericLoginError = "invalid username or password"

type AuthHandler struct {
	AuthService *service.AuthService
}

type authPageData struct {
	Error string
}

func (h *AuthHandler) HandleRegisterGet(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "register.html", authPageData{})
}

func (h *AuthHandler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := h.AuthService.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrInvalidInput):
		// Same generic message for both, mirroring the login page.
		render(w, r, http.StatusUnprocessableEntity, "register.html",
			authPageData{Error: "registration failed"})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("register failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	httpx.SeeOther(w, r, "/auth/login")
}

func (h *AuthHandler) HandleLoginGet(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "login.html", authPageData{})
}

func (h *AuthHandler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		render(w, r, http.StatusUnauthorized, "login.html",
			authPageData{Error: genericLoginError})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("login failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	codec := h.AuthService.Codec
	httpx.NoCache(w)
	httpx.SetTokenCookie(w, authn.CookieAccessToken, pair.AccessToken, codec.AccessTTL())
	httpx.SetTokenCookie(w, authn.CookieRefreshToken, pair.RefreshToken, codec.RefreshTTL())
	httpx.SeeOther(w, r, "/posts")
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := httpx.IdentityFromContext(r.Context()); ok {
		if err := h.AuthService.Logout(r.Context(), id.Username); err != nil {
			// The cookies are cleared regardless; the stored token will
			// age out on its own TTL.
			slogx.FromContext(r.Context()).Warn("logout cleanup failed", "err", err)
		}
	}

	httpx.NoCache(w)
	httpx.ClearCookie(w, authn.CookieAccessToken)
	httpx.ClearCookie(w, authn.CookieRefreshToken)
	httpx.SeeOther(w, r, "/")
}
