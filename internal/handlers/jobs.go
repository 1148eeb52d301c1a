package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/policy"
	"github.com/diewo77/seeker/internal/services"
	"github.com/diewo77/seeker/view"
)

type JobsHandler struct {
	catalog *services.CatalogService
	gate    *policy.AuthGate
	log     logging.Logger
}

func NewJobsHandler(catalog *services.CatalogService, gate *policy.AuthGate, log logging.Logger) *JobsHandler {
	return &JobsHandler{catalog: catalog, gate: gate, log: log}
}

// Home lists every job, newest first.
func (h *JobsHandler) Home(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.ListJobs(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list jobs", "error", err)
	}
	render(w, r, h.log, "index.html", map[string]any{"Jobs": jobs})
}

// job loads the {id} job or renders the not-found page.
func (h *JobsHandler) job(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	id, ok := pathID(r)
	if !ok {
		NotFound(w, r)
		return nil, false
	}
	j, err := h.catalog.GetJob(r.Context(), id)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			h.log.Error(r.Context(), "load job", "job_id", id, "error", err)
		}
		NotFound(w, r)
		return nil, false
	}
	return j, true
}

func (h *JobsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	j, ok := h.job(w, r)
	if !ok {
		return
	}
	data := map[string]any{"Job": j}
	if u := h.gate.Resolve(r); u != nil {
		applied, err := h.catalog.HasApplied(r.Context(), u.ID, j.ID)
		if err != nil {
			h.log.Warn(r.Context(), "check application", "job_id", j.ID, "error", err)
		}
		data["Applied"] = applied
	}
	render(w, r, h.log, "job.html", data)
}

// ApplyPage shows the payment confirmation form.
func (h *JobsHandler) ApplyPage(w http.ResponseWriter, r *http.Request) {
	j, ok := h.job(w, r)
	if !ok {
		return
	}
	render(w, r, h.log, "payment.html", map[string]any{"Job": j})
}

// ConfirmPayment records the application. Confirming twice is harmless.
func (h *JobsHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFound(w, r)
		return
	}
	u := policy.CurrentUser(r.Context())
	_, err := h.catalog.Apply(r.Context(), u, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFound(w, r)
		return
	case errors.Is(err, services.ErrForbidden):
		redirectWith(w, r, view.FlashError, "auth.login_required", loginPath)
		return
	case err != nil:
		failure(w, r, h.log, "/jobs/"+strconv.FormatUint(uint64(id), 10), err)
		return
	}
	redirectWith(w, r, view.FlashSuccess, "payment.recorded", "/profile")
}
