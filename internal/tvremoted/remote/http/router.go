package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/ratelimit"
)

// Router creates and configures the HTTP router for the gateway
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	// Basic middleware for all routes
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestIDHeaderMiddleware)
	r.Use(recoverMiddleware(h.logger))
	r.Use(logMiddleware(h.logger))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Request-ID", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.NotFound(notFound)
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		})

		r.Get("/status", h.handleStatus)

		// Single-command endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(h.requestTimeout))

			r.Get("/apps", h.handleListApps)
			r.Get("/inputs", h.handleListInputs)
			r.Get("/system", h.handleSystemInfo)

			r.Group(func(r chi.Router) {
				r.Use(h.rateLimit)

				r.Post("/connect", h.handleConnect)
				r.Post("/volume", h.handleVolume)
				r.Post("/channel", h.handleChannel)
				r.Post("/power", h.handlePower)
				r.Post("/navigate", h.handleNavigate)
				r.Post("/app", h.handleApp)
				r.Post("/input", h.handleInput)
				r.Post("/message", h.handleMessage)
				r.Post("/message-mute", h.handleMessageMute)
				r.Post("/shutdown-sequence", h.handleShutdownSequence)
				r.Post("/shutdown-sequence-fast", h.handleShutdownSequenceFast)
				r.Post("/cancel-shutdown", h.handleCancelShutdown)
			})
		})

		// Combos run for the sum of their delays and are not bounded
		r.With(h.rateLimit).Post("/combo", h.handleCombo)
	})

	if h.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(h.staticDir)))
	}

	return r
}

// rateLimit applies the control limit when one is configured
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return ratelimit.Middleware(h.limiter, h.logger, ratelimit.Options{
		LimitType: ratelimit.LimitControl,
	})(next)
}

// handleHealth reports liveness and the link state
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, v1.HealthResponse{
		Status:    "ok",
		Connected: h.service.Status().Connected,
	})
}
