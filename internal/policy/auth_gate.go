package policy

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/seeker/auth"
	"github.com/diewo77/seeker/gate"
	"github.com/diewo77/seeker/httpx"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/middleware"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/services"
	"github.com/diewo77/seeker/view"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

type ctxKey struct{}

// AuthGate is the central authorization point: it resolves the signed-in
// account and enforces the soft role guards.
type AuthGate struct {
	Gate     *gate.Gate[*models.User]
	accounts *services.AccountService
	sessions *auth.Manager
	log      logging.Logger
}

func NewAuthGate(g *gate.Gate[*models.User], accounts *services.AccountService, sessions *auth.Manager, log logging.Logger) *AuthGate {
	return &AuthGate{Gate: g, accounts: accounts, sessions: sessions, log: log}
}

// WithUser stores the resolved account in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// CurrentUser returns the account stored by RequireAuth, or nil.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}

// Resolve returns the signed-in account for r, loading it when no guard has
// done so yet. A nil result means anonymous.
func (ag *AuthGate) Resolve(r *http.Request) *models.User {
	if u := CurrentUser(r.Context()); u != nil {
		return u
	}
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	u, err := ag.accounts.User(r.Context(), id)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			ag.log.Error(r.Context(), "load session user", "user_id", id, "error", err)
		}
		return nil
	}
	return u
}

// Authorize checks the current user against the registered policies.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	u := CurrentUser(ctx)
	if u == nil {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, u, action, resourceType, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// RequireAuth sends anonymous requests to the login page. A session whose
// account no longer exists is dropped.
func (ag *AuthGate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := auth.FromContext(r.Context())
		if !sess.Authenticated() {
			middleware.Flash(w, r, view.FlashError, "auth.login_required")
			httpx.SeeOther(w, r, LoginPath)
			return
		}
		u := ag.Resolve(r)
		if u == nil {
			ag.sessions.Clear(w)
			middleware.Flash(w, r, view.FlashError, "auth.login_required")
			httpx.SeeOther(w, r, LoginPath)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireRole redirects accounts of another role to their own landing page.
// It must run after RequireAuth.
func (ag *AuthGate) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := CurrentUser(r.Context())
			if u == nil {
				httpx.SeeOther(w, r, LoginPath)
				return
			}
			if u.Role != role {
				httpx.SeeOther(w, r, u.Role.Landing())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
