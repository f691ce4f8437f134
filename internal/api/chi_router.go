// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/filmdash/internal/config"
	"github.com/tomtom215/filmdash/internal/middleware"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil security config uses the middleware
// defaults.
func NewRouter(handler *Handler, sec *config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromConfig(sec),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// Long-lived, so kept out of the request metrics.
		r.With(router.chiMiddleware.RateLimit()).Get("/ws", router.handler.ETLEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.PrometheusMetrics)

			r.Route("/etl", func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimit())
				r.With(router.chiMiddleware.RateLimitETL()).Post("/run", router.handler.ETLRun)
				r.Get("/status", router.handler.ETLStatus)
			})

			r.Group(func(r chi.Router) {
				// Read-only and served from the dataset cache.
				r.Use(router.chiMiddleware.RateLimitDashboard())

				r.Get("/dashboard", router.handler.Dashboard)
				r.Get("/dashboard/summary", router.handler.DashboardSummary)
				r.Get("/dashboard/bounds", router.handler.DashboardBounds)
				r.Get("/movies", router.handler.Movies)
				r.Get("/genres", router.handler.Genres)
				r.Get("/genres/{genre}/directors", router.handler.GenreDirectors)
			})
		})
	})

	return r
}
