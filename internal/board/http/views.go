package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/tabberone/corkboard/pkg/httpx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

//go:embed views/*.html
var viewsFS embed.FS

var views = template.Must(template.ParseFS(viewsFS, "views/*.html"))

// render executes the named view into a buffer first so a template error
// becomes a clean 500 instead of a half-written page.
func render(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		slogx.FromContext(r.Context()).Error("render failed", "view", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// identityOf adapts the context lookup for the views, which want a nil-able
// pointer.
func identityOf(r *http.Request) *httpx.Identity {
	if id, ok := httpx.IdentityFromContext(r.Context()); ok {
		return &id
	}
	return nil
}
