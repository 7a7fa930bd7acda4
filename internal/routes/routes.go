package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhil/togglenest/internal/handlers"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/middleware"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Onboarding *handlers.OnboardingHandler
	Projects   *handlers.ProjectHandler
	Dashboard  *handlers.DashboardHandler
	Board      *handlers.BoardHandler
	Activity   *handlers.ActivityHandler
	Auth       *handlers.AuthHandler
	WebSocket  *handlers.WebSocketHandler
}

// Options configures the router-wide middleware.
type Options struct {
	JWTSecret   string
	RateLimiter *middleware.RateLimiter
	Log         *logger.Logger
}

// List of all route registration functions
var routeModules = []func(*mux.Router, *Handlers){
	OnboardingRoutes,
	ProjectRoutes,
	DashboardRoutes,
	BoardRoutes,
	ActivityRoutes,
	AuthRoutes,
}

// RegisterAllRoutes builds the router.
func RegisterAllRoutes(h *Handlers, opts Options) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		middleware.RequestID(opts.Log),
		middleware.Metrics,
		middleware.CORS,
		middleware.IdentityMiddleware(opts.JWTSecret, opts.Log),
	)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(
		mux.CORSMethodMiddleware(api),
		middleware.Preflight,
		middleware.ResponseWrapperMiddleware,
	)
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware)
	}
	for _, register := range routeModules {
		register(api, h)
	}

	router.HandleFunc("/ws", h.WebSocket.HandleWebSocket).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/", handlers.Health).Methods(http.MethodGet)
	return router
}
