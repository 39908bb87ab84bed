// Package api builds the HTTP router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/okhsunrog/big-five-tester/internal/api/middleware"
	"github.com/okhsunrog/big-five-tester/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler         http.HandlerFunc
	StartAnalysisHandler  http.HandlerFunc
	AnalysisStatusHandler http.HandlerFunc
	ListModelsHandler     http.HandlerFunc
	SaveResultHandler     http.HandlerFunc
	GetResultHandler      http.HandlerFunc
}

// NewRouter builds the Chi router with the middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Get("/api/v1/models", orNotImplemented(deps.ListModelsHandler))

	// Starting an analysis is the only rate-limited route: each start fans
	// out into slow model calls.
	if deps.RateLimit != nil {
		r.With(deps.RateLimit.Limit).Post("/api/v1/analyses", orNotImplemented(deps.StartAnalysisHandler))
	} else {
		r.Post("/api/v1/analyses", orNotImplemented(deps.StartAnalysisHandler))
	}
	r.Get("/api/v1/analyses/{jobID}", orNotImplemented(deps.AnalysisStatusHandler))

	r.Post("/api/v1/results", orNotImplemented(deps.SaveResultHandler))
	r.Get("/api/v1/results/{resultID}", orNotImplemented(deps.GetResultHandler))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
