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

type PostsHandler struct {
	PostService *service.PostService
}

type postsPageData struct {
	Identity *httpx.Identity
	Posts    []domain.Post
}

type postPageData struct {
	Identity *httpx.Identity
	Post     domain.Post
}

type postFormData struct {
	Error   string
	Title   string
	Content string
}

func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListPosts(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("listing posts failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, "posts.html", postsPageData{Identity: identityOf(r), Posts: posts})
}

func (h *PostsHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	p, err := h.PostService.GetPost(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("loading post failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, "post.html", postPageData{Identity: identityOf(r), Post: p})
}

func (h *PostsHandler) HandleNewForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "post_new.html", postFormData{})
}

func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// The author is always the authenticated identity, never a form
	// field.
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		// The policy keeps anonymous requests out of here; if one slips
		// through anyway, redirect rather than crash.
		httpx.SeeOther(w, r, "/auth/login")
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	_, err := h.PostService.CreatePost(r.Context(), id.Username, title, content)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		render(w, r, http.StatusUnprocessableEntity, "post_new.html",
			postFormData{Error: "title and content are required", Title: title, Content: content})
		return
	case err != nil:
		slogx.FromContext(r.Context()).Error("creating post failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	httpx.SeeOther(w, r, "/posts")
}
