package http

import (
	"errors"
	"net/http"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/internal/board/service"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/pkg/httpx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

type AdminHandler struct {
	UserService *service.UserService
}

type adminPageData struct {
	Identity *httpx.Identity
	Users    []domain.User
}

func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("listing users failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, "admin.html", adminPageData{Identity: identityOf(r), Users: users})
}

func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.UserService.DeleteUser(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Already gone; the admin page just reloads.
	case err != nil:
		slogx.FromContext(r.Context()).Error("deleting user failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	httpx.SeeOther(w, r, "/admin")
}
