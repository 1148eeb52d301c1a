package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/seeker/auth"
	"github.com/diewo77/seeker/httpx"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/services"
	"github.com/diewo77/seeker/view"
)

// VerifyHandler drives the one-time code form for the session's pending email.
type VerifyHandler struct {
	verifier *services.VerificationService
	sessions *auth.Manager
	log      logging.Logger
}

func NewVerifyHandler(verifier *services.VerificationService, sessions *auth.Manager, log logging.Logger) *VerifyHandler {
	return &VerifyHandler{verifier: verifier, sessions: sessions, log: log}
}

func (h *VerifyHandler) Page(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if sess.PendingEmail == "" && !sess.Authenticated() {
		httpx.SeeOther(w, r, "/")
		return
	}
	render(w, r, h.log, "verify.html", map[string]any{"Email": sess.PendingEmail})
}

// Verify checks the submitted code. On success the pending email becomes a
// signed-in session and the user lands on their role's page.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	code := strings.TrimSpace(r.FormValue("code"))
	if code == "" || sess.PendingEmail == "" {
		redirectWith(w, r, view.FlashError, "verify.invalid_request", verifyPath)
		return
	}
	u, err := h.verifier.Validate(r.Context(), sess.PendingEmail, code)
	switch {
	case errors.Is(err, services.ErrNotFound):
		redirectWith(w, r, view.FlashError, "verify.user_not_found", signupPath)
		return
	case errors.Is(err, services.ErrInvalidCode):
		redirectWith(w, r, view.FlashError, "verify.incorrect", verifyPath)
		return
	case errors.Is(err, services.ErrExpired):
		redirectWith(w, r, view.FlashError, "verify.expired", verifyPath)
		return
	case err != nil:
		failure(w, r, h.log, verifyPath, err)
		return
	}
	saveSession(w, r, h.sessions, h.log, auth.Session{UserID: u.ID})
	redirectWith(w, r, view.FlashSuccess, "verify.success", u.Role.Landing())
}

func (h *VerifyHandler) Resend(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if sess.PendingEmail == "" {
		httpx.SeeOther(w, r, signupPath)
		return
	}
	sent, err := h.verifier.Resend(r.Context(), sess.PendingEmail)
	switch {
	case errors.Is(err, services.ErrNotFound):
		redirectWith(w, r, view.FlashError, "verify.user_not_found", signupPath)
		return
	case errors.Is(err, services.ErrAlreadyVerified):
		sess.PendingEmail = ""
		saveSession(w, r, h.sessions, h.log, sess)
		redirectWith(w, r, view.FlashSuccess, "verify.already_verified", loginPath)
		return
	case err != nil:
		failure(w, r, h.log, verifyPath, err)
		return
	}
	if !sent {
		redirectWith(w, r, view.FlashError, "verify.resend_failed", verifyPath)
		return
	}
	redirectWith(w, r, view.FlashSuccess, "verify.resent", verifyPath)
}
