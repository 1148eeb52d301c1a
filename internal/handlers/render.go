// Package handlers holds the HTML page handlers. Every form post answers
// with a 303 redirect carrying a flash message.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diewo77/seeker/auth"
	"github.com/diewo77/seeker/httpx"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/middleware"
	"github.com/diewo77/seeker/view"
)

// render writes a page, falling back to a bare 500 when the template fails.
func render(w http.ResponseWriter, r *http.Request, log logging.Logger, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		log.Error(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// NotFound renders the standard missing-resource page.
func NotFound(w http.ResponseWriter, r *http.Request) {
	if err := view.RenderStatus(w, r, http.StatusNotFound, "404.html", nil); err != nil {
		http.NotFound(w, r)
	}
}

// redirectWith flashes code and sends the browser to target.
func redirectWith(w http.ResponseWriter, r *http.Request, kind, code, target string) {
	middleware.Flash(w, r, kind, code)
	httpx.SeeOther(w, r, target)
}

// failure logs an unexpected error and redirects with the generic message.
func failure(w http.ResponseWriter, r *http.Request, log logging.Logger, target string, err error) {
	log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	redirectWith(w, r, view.FlashError, "error.generic", target)
}

// saveSession persists s. A failed save only costs the user a retry.
func saveSession(w http.ResponseWriter, r *http.Request, sessions *auth.Manager, log logging.Logger, s auth.Session) {
	if err := sessions.Save(w, s); err != nil {
		log.Error(r.Context(), "save session", "error", err)
	}
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
