package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/seeker/httpx"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/policy"
	"github.com/diewo77/seeker/internal/services"
	"github.com/diewo77/seeker/view"
)

const companyPath = "/company"

// AccountHandler serves the signed-in pages: the individual profile and
// the company dashboard.
type AccountHandler struct {
	catalog *services.CatalogService
	log     logging.Logger
}

func NewAccountHandler(catalog *services.CatalogService, log logging.Logger) *AccountHandler {
	return &AccountHandler{catalog: catalog, log: log}
}

func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u := policy.CurrentUser(r.Context())
	apps, err := h.catalog.ApplicationsFor(r.Context(), u.ID)
	if err != nil {
		h.log.Error(r.Context(), "list applications", "user_id", u.ID, "error", err)
	}
	render(w, r, h.log, "profile.html", map[string]any{"User": u, "Applications": apps})
}

func (h *AccountHandler) Company(w http.ResponseWriter, r *http.Request) {
	u := policy.CurrentUser(r.Context())
	jobs, err := h.catalog.JobsByPoster(r.Context(), u.ID)
	if err != nil {
		h.log.Error(r.Context(), "list company jobs", "user_id", u.ID, "error", err)
	}
	render(w, r, h.log, "company.html", map[string]any{"Company": u, "Jobs": jobs})
}

func (h *AccountHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	u := policy.CurrentUser(r.Context())
	_, err := h.catalog.CreateJob(r.Context(), u, services.JobInput{
		Title:       r.FormValue("title"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
	})
	switch {
	case errors.Is(err, services.ErrForbidden):
		httpx.SeeOther(w, r, u.Role.Landing())
		return
	case errors.Is(err, services.ErrValidation):
		redirectWith(w, r, view.FlashError, "jobs.fields_required", companyPath)
		return
	case err != nil:
		failure(w, r, h.log, companyPath, err)
		return
	}
	redirectWith(w, r, view.FlashSuccess, "jobs.posted", companyPath)
}
