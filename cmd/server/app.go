package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diewo77/seeker/internal/handlers"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/middleware"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	router    chi.Router
	routerCfg *RouterConfig
	log       logging.Logger
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *RouterConfig, log logging.Logger) *App {
	app := &App{
		router:    chi.NewRouter(),
		routerCfg: routerCfg,
		log:       log,
	}
	// Templates get the signed-in account through a callback so view does
	// not depend on the policy package.
	view.SetUserResolver(func(r *http.Request) any {
		if u := routerCfg.AuthGate.Resolve(r); u != nil {
			return u
		}
		return nil
	})
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	r := a.router
	cfg := a.routerCfg

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(a.log))
	r.Use(middleware.Recover(a.log))
	r.Use(middleware.Prefs)
	r.Use(cfg.Sessions.Middleware)

	r.NotFound(handlers.NotFound)

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := cfg.AuthHandler
	vh := cfg.VerifyHandler
	jh := cfg.JobsHandler

	r.Get("/", jh.Home)
	r.Get("/healthz", cfg.HealthHandler.Healthz)
	r.Get("/jobs/{id}", jh.Detail)
	r.Get("/login", ah.LoginPage)
	r.Get("/signup", ah.SignupPage)
	r.Get("/logout", ah.Logout)
	r.Get("/verify", vh.Page)

	// Credential posts share a per-IP budget.
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthLimiter.Middleware)
		r.Post("/login", ah.Login)
		r.Post("/signup", ah.Signup)
		r.Post("/verify", vh.Verify)
		r.Post("/resend-otp", vh.Resend)
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	acc := cfg.AccountHandler
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthGate.RequireAuth)

		r.Get("/jobs/{id}/apply", jh.ApplyPage)
		r.Post("/payment/{id}/confirm", jh.ConfirmPayment)

		r.With(cfg.AuthGate.RequireRole(models.RoleIndividual)).Get("/profile", acc.Profile)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthGate.RequireRole(models.RoleCompany))
			r.Get("/company", acc.Company)
			r.Post("/company/jobs/new", acc.CreateJob)
		})
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}
