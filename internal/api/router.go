package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worklog-hq/worklog/internal/api/auth"
	"github.com/worklog-hq/worklog/internal/api/clients"
	"github.com/worklog-hq/worklog/internal/api/middleware"
	"github.com/worklog-hq/worklog/internal/api/reports"
	"github.com/worklog-hq/worklog/internal/api/users"
	"github.com/worklog-hq/worklog/internal/models"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Create JWT service
	jwtService := auth.NewJWTService(s.config.JWTSecret, s.config.AccessTokenTTL)

	// Create lockout tracker
	lockoutTracker := auth.NewLockoutTracker(s.config.LockoutThreshold, s.config.LockoutDuration)

	// Create rate limiters
	ipLimiter := middleware.NewRateLimiter(s.config.RateLimitPerIP)
	userLimiter := middleware.NewRateLimiter(s.config.RateLimitPerUser)

	// Global middleware
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.Recoverer)

	// JSON fallbacks so unmatched routes get the same envelope
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		JSONError(w, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		JSONError(w, ErrMethodNotAllowed)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (mostly public)
		r.Route("/auth", func(r chi.Router) {
			authHandler := auth.NewHandler(
				s.storage,
				jwtService,
				lockoutTracker,
				s.config.RefreshTokenTTL,
			)

			// Public routes with IP rate limiting
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(ipLimiter))
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)
			})

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(jwtService))
				r.Post("/logout", authHandler.Logout)
			})
		})

		// User routes (protected)
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))
			r.Use(middleware.RateLimitByUser(userLimiter))

			userHandler := users.NewHandler(s.storage)

			// Current user endpoints (any authenticated user)
			r.Get("/me", userHandler.GetCurrentUser)
			r.Put("/me/password", userHandler.ChangePassword)

			// Admin-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Get("/employees", userHandler.ListEmployees)
			})

			// Per-user endpoints (admin or self)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.RequireAdminOrSelf)
				r.Get("/", userHandler.GetByID)
				r.Put("/", userHandler.Update)

				// Delete is admin-only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(models.RoleAdmin))
					r.Delete("/", userHandler.Delete)
				})
			})
		})

		// Client registry routes (protected, mutations admin-only)
		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))
			r.Use(middleware.RateLimitByUser(userLimiter))

			clientHandler := clients.NewHandler(s.storage)

			r.Get("/", clientHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/", clientHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", clientHandler.GetByID)
					r.Put("/", clientHandler.Update)
					r.Delete("/", clientHandler.Delete)
				})
			})
		})

		// Work report routes (protected, visibility-scoped per role)
		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))
			r.Use(middleware.RateLimitByUser(userLimiter))

			reportHandler := reports.NewHandler(s.storage)

			r.Get("/", reportHandler.List)
			r.Post("/", reportHandler.Create)
			r.Get("/projects", reportHandler.Projects)
			r.Get("/export", reportHandler.Export)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/employees", reportHandler.Employees)
				r.Post("/bulk-delete", reportHandler.BulkDelete)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", reportHandler.Update)
				r.Delete("/", reportHandler.Delete)
			})
		})
	})

	// Health checks (public, no rate limit)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/live", s.healthHandler.Live)
	r.Get("/health/ready", s.healthHandler.Ready)

	return r
}
