package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/pheafer-api/internal/auth"
	"github.com/redmonkez12/pheafer-api/internal/config"
	"github.com/redmonkez12/pheafer-api/internal/httputil"
	"github.com/redmonkez12/pheafer-api/internal/listing"
	"github.com/redmonkez12/pheafer-api/internal/logging"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Auth     *auth.Handler
	Listings *listing.Handler
}

// NewRouter creates and configures the HTTP router. Metrics are registered
// with registry and served from it at /metrics.
func NewRouter(
	cfg *config.Config,
	handlers Handlers,
	authMiddleware *auth.Middleware,
	registry *prometheus.Registry,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           300, // 5 minutes
		}))
	}

	metrics := NewMetrics(registry)

	// Security headers on all responses
	r.Use(SecurityHeaders(cfg.Server.IsDevelopment()))

	// Global middleware
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(metrics.Middleware)            // Request counters and latency
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{DisableCompression: true}))

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		logger.Info("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		logger.Info("Swagger UI disabled (production mode)")
	}

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/register", handlers.Auth.Register)
		r.Post("/login", handlers.Auth.Login)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", handlers.Listings.List)
			r.Get("/{id}", handlers.Listings.Get)

			// Mutations require a bearer token
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Post("/", handlers.Listings.Create)
				r.Put("/{id}", handlers.Listings.Update)
				r.Delete("/{id}", handlers.Listings.Delete)
			})
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
