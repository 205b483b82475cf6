package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mento-app/mento-server/internal/api/http/handler"
	"github.com/mento-app/mento-server/internal/api/http/middleware"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

const requestTimeout = 15 * time.Second

// Router wires handlers and middleware into a chi mux.
type Router struct {
	progressService   handler.ProgressService
	authService       handler.AuthService
	onboardingService handler.OnboardingService
	store             handler.Pinger
	tokenManager      model.TokenManager
	contextManager    model.ContextManager
	logger            *logger.Logger

	authRequired bool
	verbose      bool
}

// Options toggles router behaviour.
type Options struct {
	// AuthRequired rejects progress and onboarding calls without a bearer token.
	AuthRequired bool
	// Verbose attaches diagnostics to internal error responses.
	Verbose bool
}

// New creates a new Router instance.
func New(
	progressService handler.ProgressService,
	authService handler.AuthService,
	onboardingService handler.OnboardingService,
	store handler.Pinger,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
	opts Options,
) *Router {
	return &Router{
		progressService:   progressService,
		authService:       authService,
		onboardingService: onboardingService,
		store:             store,
		tokenManager:      tokenManager,
		contextManager:    contextManager,
		logger:            logger,
		authRequired:      opts.AuthRequired,
		verbose:           opts.Verbose,
	}
}

// Register builds the HTTP handler with all routes mounted.
func (r *Router) Register() http.Handler {
	responder := handler.NewResponder(r.logger, r.verbose)
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, responder, r.logger, r.authRequired)

	mux := chi.NewRouter()
	mux.Use(middleware.NewTracing().Handle)
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.Timeout(requestTimeout))

	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder.JSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "route not found"})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responder.JSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "method not allowed"})
	})

	mux.Get("/healthz", handler.NewHealth(r.store, responder).Check)

	r.registerAuthRoutes(mux, handler.NewAuth(r.authService, responder, r.logger))

	mux.Group(func(pr chi.Router) {
		pr.Use(authenticate.Handle)
		r.registerProgressRoutes(pr, handler.NewProgress(r.progressService, r.contextManager, responder, r.logger))
		r.registerOnboardingRoutes(pr, handler.NewOnboarding(r.onboardingService, r.contextManager, responder, r.logger))
	})

	return mux
}

func (r *Router) registerAuthRoutes(mux chi.Router, h *handler.Auth) {
	mux.Post("/api/users/register", h.Register)
	mux.Post("/api/users/login", h.Login)
}

func (r *Router) registerProgressRoutes(mux chi.Router, h *handler.Progress) {
	mux.Post("/api/progress/complete", h.CompleteLevel)
	mux.Post("/api/progress/island", h.IslandProgress)
	mux.Post("/api/progress/current", h.CurrentLevel)
	mux.Post("/api/progress/reset", h.Reset)
	mux.Post("/api/progress/update", h.Update)
	mux.Get("/api/progress/{userID}", h.List)
	mux.Get("/api/users/{userID}/islands/{islandID}/progress", h.IslandProgressByPath)
	mux.Get("/api/users/{userID}/islands/{islandID}/levels/{level}", h.LevelStatus)
}

func (r *Router) registerOnboardingRoutes(mux chi.Router, h *handler.Onboarding) {
	mux.Post("/api/onboarding", h.Save)
	mux.Get("/api/onboarding/{userID}", h.Get)
}
