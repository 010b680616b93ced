// Package http wires the session service to its HTTP surface: the /api
// endpoints the storefront pages call, plus liveness and readiness probes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kushistore/storefront/internal/auth/service"
	"github.com/kushistore/storefront/internal/auth/store"
	"github.com/kushistore/storefront/pkg/httpx"
	"github.com/kushistore/storefront/pkg/jwtx"
	"github.com/kushistore/storefront/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	// POST /api/register - strict rate limit (account creation)
	registerHandler := &RegisterHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /api/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /api/login - strict rate limit (brute-force surface)
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /api/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /api/profile - requires a session token
	profileHandler := &ProfileHandler{SessionService: r.SessionService}
	r.Mux.Handle("GET /api/profile",
		httpx.Chain(profileHandler,
			AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Password-reset endpoints share the strict tier with login; both are
	// account-probing surfaces.
	forgotHandler := &ForgotPasswordHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /api/forgot-password",
		httpx.Chain(forgotHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	resetHandler := &ResetPasswordHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /api/reset-password",
		httpx.Chain(resetHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
