package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/RitochitGhosh/summarAIze/internal/api/middleware"
	"github.com/RitochitGhosh/summarAIze/internal/handlers"
	"github.com/RitochitGhosh/summarAIze/internal/store"
)

// NewRouter creates and configures the HTTP router. redisStore may be nil;
// rate limiting is then disabled and auth resolves sessions from the
// primary store only.
func NewRouter(logger zerolog.Logger, db store.DataStore, redisStore *store.RedisStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(64 * 1024)) // 64KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting (requires Redis)
	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore.Client(), logger)
		r.Use(limiter.Middleware)
	}

	// CORS - the dashboard frontend sends the session cookie
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(db, redisStore, logger)
	auth := middleware.NewAuthMiddleware(db, redisStore)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes (no auth required)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Authenticated routes (require a valid session)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/api/agents", h.ListAgents)
		r.Post("/api/agents", h.CreateAgent)
		r.Get("/api/agents/{id}", h.GetAgent)

		r.Get("/api/meetings", h.ListMeetings)
		r.Post("/api/meetings", h.CreateMeeting)
		r.Get("/api/meetings/{id}", h.GetMeeting)
		r.Patch("/api/meetings/{id}", h.UpdateMeeting)
		r.Delete("/api/meetings/{id}", h.DeleteMeeting)
	})

	return r
}
