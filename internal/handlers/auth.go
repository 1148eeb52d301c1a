package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/seeker/auth"
	"github.com/diewo77/seeker/httpx"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/services"
	"github.com/diewo77/seeker/view"
)

const (
	loginPath  = "/login"
	signupPath = "/signup"
	verifyPath = "/verify"
)

type AuthHandler struct {
	accounts *services.AccountService
	sessions *auth.Manager
	log      logging.Logger
}

func NewAuthHandler(accounts *services.AccountService, sessions *auth.Manager, log logging.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, log: log}
}

// LoginPage shows the sign-in form; signed-in users go to their profile.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.FromContext(r.Context()).Authenticated() {
		httpx.SeeOther(w, r, "/profile")
		return
	}
	render(w, r, h.log, "auth.html", map[string]any{"Mode": "login"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	switch {
	case errors.Is(err, services.ErrValidation):
		redirectWith(w, r, view.FlashError, "auth.credentials_required", loginPath)
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		redirectWith(w, r, view.FlashError, "auth.invalid_credentials", loginPath)
		return
	case errors.Is(err, services.ErrEmailNotVerified):
		sess := auth.FromContext(r.Context())
		sess.PendingEmail = u.Email
		saveSession(w, r, h.sessions, h.log, sess)
		redirectWith(w, r, view.FlashError, "auth.verify_required", verifyPath)
		return
	case err != nil:
		failure(w, r, h.log, loginPath, err)
		return
	}
	saveSession(w, r, h.sessions, h.log, auth.Session{UserID: u.ID})
	redirectWith(w, r, view.FlashSuccess, "auth.signed_in", "/profile")
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.log, "auth.html", map[string]any{"Mode": "signup"})
}

// Signup creates a pending account and moves the browser to the code form.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	res, err := h.accounts.Register(r.Context(), services.RegisterInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Role:     r.FormValue("role"),
		Password: r.FormValue("password"),
	})
	switch {
	case errors.Is(err, services.ErrValidation):
		code := "auth.signup_required"
		if v := services.Violations(err); v["email"] == "invalid_email" {
			code = "auth.email_invalid"
		}
		redirectWith(w, r, view.FlashError, code, signupPath)
		return
	case errors.Is(err, services.ErrDuplicateEmail):
		redirectWith(w, r, view.FlashError, "auth.email_taken", signupPath)
		return
	case err != nil:
		failure(w, r, h.log, signupPath, err)
		return
	}

	sess := auth.FromContext(r.Context())
	sess.PendingEmail = res.User.Email
	saveSession(w, r, h.sessions, h.log, sess)
	if !res.CodeSent {
		redirectWith(w, r, view.FlashError, "verify.send_failed", verifyPath)
		return
	}
	redirectWith(w, r, view.FlashSuccess, "verify.code_sent", verifyPath)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	redirectWith(w, r, view.FlashSuccess, "auth.signed_out", "/")
}
