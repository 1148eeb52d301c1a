package main

import (
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/seeker/auth"
	"github.com/diewo77/seeker/internal/config"
	"github.com/diewo77/seeker/internal/handlers"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/middleware"
	"github.com/diewo77/seeker/internal/notify"
	"github.com/diewo77/seeker/internal/policy"
	"github.com/diewo77/seeker/internal/services"
	"github.com/diewo77/seeker/internal/store"
)

// Deps are the process-level collaborators the router is built from.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     logging.Logger
	Mailer  notify.Gateway
	Limiter middleware.Limiter
	// LimiterMode applies when Limiter's backend errors.
	LimiterMode middleware.FailureMode
	// VerifyOptions customise code generation (tests pin codes and clocks).
	VerifyOptions []services.VerificationOption
}

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	Sessions    *auth.Manager
	AuthGate    *policy.AuthGate
	AuthLimiter *middleware.RateLimiter

	AuthHandler    *handlers.AuthHandler
	VerifyHandler  *handlers.VerifyHandler
	JobsHandler    *handlers.JobsHandler
	AccountHandler *handlers.AccountHandler
	HealthHandler  *handlers.HealthHandler
}

// NewRouterConfig wires stores, services, the authorization gate and handlers.
func NewRouterConfig(d Deps) *RouterConfig {
	cfg := d.Config
	log := d.Log
	mailer := d.Mailer
	if mailer == nil {
		mailer = notify.NewGateway(cfg.Mail, log)
	}

	users := store.NewUserStore(d.DB)
	jobs := store.NewJobStore(d.DB)
	apps := store.NewApplicationStore(d.DB)

	verifyOpts := append([]services.VerificationOption{services.WithCodeTTL(cfg.App.OTPTTL)}, d.VerifyOptions...)
	verifier := services.NewVerificationService(users, mailer, log, cfg.Mail.BaseURL, verifyOpts...)
	accounts := services.NewAccountService(users, verifier, log)
	catalogGate := services.NewCatalogGate()
	catalog := services.NewCatalogService(jobs, apps, catalogGate, log)

	sessions := auth.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure)
	authGate := policy.NewAuthGate(catalogGate, accounts, sessions, log)

	mode := d.LimiterMode
	if mode == "" {
		mode = middleware.FailOpen
	}
	limiter := middleware.NewRateLimiter(d.Limiter, cfg.RateLimit.PerMinute, time.Minute, mode, "auth", log)

	return &RouterConfig{
		Sessions:       sessions,
		AuthGate:       authGate,
		AuthLimiter:    limiter,
		AuthHandler:    handlers.NewAuthHandler(accounts, sessions, log),
		VerifyHandler:  handlers.NewVerifyHandler(verifier, sessions, log),
		JobsHandler:    handlers.NewJobsHandler(catalog, authGate, log),
		AccountHandler: handlers.NewAccountHandler(catalog, log),
		HealthHandler:  handlers.NewHealthHandler(d.DB, log),
	}
}
